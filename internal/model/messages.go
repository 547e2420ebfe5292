package model

// User-facing messages, in the event's language.
const (
	MsgWelcome            = "Bem-vindo ao sistema de registro!"
	MsgNotFound           = "Nome não encontrado na lista de convidados. Verifique se digitou corretamente ou entre em contato com a organização."
	MsgNameRequired       = "Por favor, digite seu nome completo."
	MsgDeclined           = "Que pena! Sua resposta foi registrada. Obrigado por avisar."
	MsgFreeConfirmed      = "Presença confirmada! Não há valor a pagar."
	MsgPaymentPending     = "Presença confirmada! Pague com o código PIX abaixo (copia e cola) ou escaneie o QR code."
	MsgInvalidDocument    = "RG inválido. Por favor, digite apenas números."
	MsgVisitRegistered    = "Registro realizado com sucesso! Chegue com 30 minutos de antecedência e traga documento de identidade com foto."
	MsgSecurityNotice     = "Os dados coletados serão utilizados exclusivamente para autorização de acesso. Ao prosseguir, você autoriza o compartilhamento destas informações com a segurança do local."
	MsgInvalidPaymentData = "Não foi possível gerar o código PIX com os dados informados."
)

// Error codes of ErrorResponse.Code
const (
	CodeInvalidRequest  = "invalid_request"
	CodeNotFound        = "not_found"
	CodeInvalidStep     = "invalid_step"
	CodeInvalidInput    = "invalid_input"
	CodeInvalidDocument = "invalid_document"
	CodeInvalidPayment  = "invalid_payment"
	CodeUnauthorized    = "unauthorized"
	CodeDisabled        = "disabled"
	CodeInternal        = "internal_error"
)
