// Package visit registers visitors for facility access: the invited participant
// and companions, each with an identity document that is stored sealed.
package visit

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/AlexZinkM/event-registration/internal/metrics"
	"github.com/AlexZinkM/event-registration/internal/requestcontext"
	"github.com/AlexZinkM/event-registration/internal/roster"
	"github.com/AlexZinkM/event-registration/internal/store"
)

const (
	minDocumentDigits = 5
	maxDocumentDigits = 14
)

// FieldError is a visitor form value that cannot be accepted
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Matcher finds a guest by typed name
type Matcher interface {
	Find(rawName string) (roster.Participant, bool)
}

// Store saves the rows of one registration
type Store interface {
	AppendAll(vs []store.Visit) error
}

// Sealer encrypts document numbers
type Sealer interface {
	Seal(plaintext string) (string, error)
}

// Person is a visitor name and identity document (RG) as typed.
type Person struct {
	Name     string
	Document string
}

// Request is one visitor registration.
type Request struct {
	Name       string
	Document   string
	Companions []Person
}

// Result is a saved registration
type Result struct {
	VisitID     string
	Participant roster.Participant
	Visitors    int
}

// Service registers visits
type Service struct {
	matcher       Matcher
	store         Store
	sealer        Sealer
	maxCompanions int
	metrics       *metrics.Metrics
	logger        *zap.Logger
}

// NewService creates a visit Service. maxCompanions applies to guests whose roster entry sets no limit.
func NewService(matcher Matcher, visits Store, sealer Sealer, maxCompanions int, m *metrics.Metrics, logger *zap.Logger) *Service {
	return &Service{
		matcher:       matcher,
		store:         visits,
		sealer:        sealer,
		maxCompanions: maxCompanions,
		metrics:       m,
		logger:        logger,
	}
}

// CompanionLimit returns how many companions p may bring
func (s *Service) CompanionLimit(p roster.Participant) int {
	if p.MaxCompanions > 0 {
		return p.MaxCompanions
	}
	return s.maxCompanions
}

// Register validates the request, seals every document and saves one row per visitor.
func (s *Service) Register(ctx context.Context, req Request) (*Result, error) {
	p, ok := s.matcher.Find(req.Name)
	s.metrics.LookupResult(ok)
	if !ok {
		return nil, roster.ErrNotFound
	}

	doc, err := NormalizeDocument(req.Document)
	if err != nil {
		return nil, &FieldError{Field: "document", Reason: err.Error()}
	}

	if limit := s.CompanionLimit(p); len(req.Companions) > limit {
		return nil, &FieldError{Field: "companions", Reason: fmt.Sprintf("at most %d allowed", limit)}
	}

	people := []Person{{Name: p.FullName, Document: doc}}
	for i, c := range req.Companions {
		name := strings.Join(strings.Fields(c.Name), " ")
		if name == "" {
			return nil, &FieldError{Field: fmt.Sprintf("companions[%d].name", i), Reason: "is required"}
		}
		cdoc, err := NormalizeDocument(c.Document)
		if err != nil {
			return nil, &FieldError{Field: fmt.Sprintf("companions[%d].document", i), Reason: err.Error()}
		}
		people = append(people, Person{Name: name, Document: cdoc})
	}

	id := uuid.NewString()[:8]
	now := requestcontext.Now(ctx)
	rows := make([]store.Visit, 0, len(people))
	for i, person := range people {
		sealed, err := s.sealer.Seal(person.Document)
		if err != nil {
			return nil, fmt.Errorf("failed to seal document: %w", err)
		}
		relation := store.RelationCompanion
		if i == 0 {
			relation = store.RelationParticipant
		}
		rows = append(rows, store.Visit{
			ID:              id,
			Timestamp:       now,
			ParticipantName: p.FullName,
			ParticipantID:   p.ID,
			VisitorName:     person.Name,
			Relation:        relation,
			Document:        sealed,
		})
	}

	if err := s.store.AppendAll(rows); err != nil {
		return nil, fmt.Errorf("failed to save visit: %w", err)
	}

	s.metrics.Visitors.Add(float64(len(rows)))
	s.logger.Info("visit registered",
		zap.String("request_id", requestcontext.RequestID(ctx)),
		zap.String("visit_id", id),
		zap.String("participant", p.FullName),
		zap.Int("visitors", len(rows)))

	return &Result{VisitID: id, Participant: p, Visitors: len(rows)}, nil
}

// NormalizeDocument strips the usual RG punctuation (dots, dashes, spaces)
// and requires what remains to be digits only.
// Example: NormalizeDocument("12.345.678-9") = "123456789"
func NormalizeDocument(doc string) (string, error) {
	doc = strings.Map(func(r rune) rune {
		switch r {
		case '.', '-', ' ', '/':
			return -1
		}
		return r
	}, doc)

	if doc == "" {
		return "", errors.New("is required")
	}
	for _, r := range doc {
		if r < '0' || r > '9' {
			return "", errors.New("must contain digits only")
		}
	}
	if len(doc) < minDocumentDigits || len(doc) > maxDocumentDigits {
		return "", fmt.Errorf("must have between %d and %d digits", minDocumentDigits, maxDocumentDigits)
	}
	return doc, nil
}
