package model

// KeyFile represents the .key file stored beside visits.csv.
// CipherText seals a fixed marker so a wrong passphrase is caught at startup.
type KeyFile struct {
	Salt       string `json:"salt"`
	Nonce      string `json:"nonce"`
	CipherText string `json:"cipherText"`
	CreatedAt  string `json:"createdAt"`
}
