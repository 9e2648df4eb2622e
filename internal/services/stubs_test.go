package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"symptom-checker-server/internal/models"
	"symptom-checker-server/internal/scoring"
)

var errRecordNotFound = gorm.ErrRecordNotFound

// stubLLM answers every prompt through reply.
type stubLLM struct {
	mu    sync.Mutex
	calls int
	reply func(prompt string) (string, error)
}

func replyWith(text string, err error) *stubLLM {
	return &stubLLM{reply: func(string) (string, error) { return text, err }}
}

func (stub *stubLLM) Generate(_ context.Context, prompt string) (string, error) {
	stub.mu.Lock()
	stub.calls++
	stub.mu.Unlock()
	return stub.reply(prompt)
}

func (stub *stubLLM) callCount() int {
	stub.mu.Lock()
	defer stub.mu.Unlock()
	return stub.calls
}

type stubExtractor struct {
	result models.ParseResult
	calls  int
}

func (stub *stubExtractor) Extract(_ context.Context, input string) models.ParseResult {
	stub.calls++
	result := stub.result
	result.OriginalInput = input
	return result
}

type stubStrategy struct {
	resp  *scoring.Response
	err   error
	calls int
}

func (stub *stubStrategy) Name() string { return "stub" }

func (stub *stubStrategy) Score(context.Context, []string) (*scoring.Response, error) {
	stub.calls++
	return stub.resp, stub.err
}

type stubHistoryRepo struct {
	createErr  error
	created    []models.SymptomHistory
	ctxErrs    []error
	records    []models.SymptomHistory
	total      int64
	findErr    error
	deleted    int64
	lastFilter models.HistoryFilter
	lastSince  time.Time
}

func (stub *stubHistoryRepo) Create(ctx context.Context, record *models.SymptomHistory) error {
	stub.ctxErrs = append(stub.ctxErrs, ctx.Err())
	if stub.createErr != nil {
		return stub.createErr
	}
	record.ID = uuid.NewString()
	stub.created = append(stub.created, *record)
	return nil
}

func (stub *stubHistoryRepo) FindByUser(_ context.Context, _ string, filter models.HistoryFilter) ([]models.SymptomHistory, int64, error) {
	stub.lastFilter = filter
	return stub.records, stub.total, stub.findErr
}

func (stub *stubHistoryRepo) FindByIDForUser(_ context.Context, id string, userID string) (models.SymptomHistory, error) {
	for _, record := range stub.records {
		if record.ID == id && record.UserID == userID {
			return record, nil
		}
	}
	if stub.findErr != nil {
		return models.SymptomHistory{}, stub.findErr
	}
	return models.SymptomHistory{}, errRecordNotFound
}

func (stub *stubHistoryRepo) FindSince(_ context.Context, _ string, since time.Time) ([]models.SymptomHistory, error) {
	stub.lastSince = since
	return stub.records, stub.findErr
}

func (stub *stubHistoryRepo) DeleteForUser(context.Context, string, string) (int64, error) {
	return stub.deleted, stub.findErr
}

type stubUserRepo struct {
	byEmail map[string]models.User
	saved   []models.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byEmail: make(map[string]models.User)}
}

func (stub *stubUserRepo) FindByEmail(_ context.Context, email string) (models.User, error) {
	if user, ok := stub.byEmail[email]; ok {
		return user, nil
	}
	return models.User{}, errRecordNotFound
}

func (stub *stubUserRepo) FindByID(_ context.Context, id string) (models.User, error) {
	for _, user := range stub.byEmail {
		if user.ID == id {
			return user, nil
		}
	}
	return models.User{}, errRecordNotFound
}

func (stub *stubUserRepo) Create(_ context.Context, user *models.User) error {
	user.ID = "user-" + strings.Split(user.Email, "@")[0]
	stub.byEmail[user.Email] = *user
	return nil
}

func (stub *stubUserRepo) Save(_ context.Context, user *models.User) error {
	stub.byEmail[user.Email] = *user
	stub.saved = append(stub.saved, *user)
	return nil
}

type stubTokens struct{}

func (stubTokens) Issue(user *models.User) (string, error) {
	return "token-for-" + user.ID, nil
}
