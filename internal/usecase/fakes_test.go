package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"finetrack/internal/domain/entity"
	"finetrack/internal/domain/repository"
	"finetrack/internal/domain/service"
	"finetrack/pkg/errors"
)

type memUserRepo struct {
	mu    sync.Mutex
	users map[string]*entity.User
}

func newMemUserRepo(users ...*entity.User) *memUserRepo {
	r := &memUserRepo{users: make(map[string]*entity.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *memUserRepo) Create(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = user
	return nil
}

func (r *memUserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, errors.NotFound("User", nil)
	}
	copied := *u
	return &copied, nil
}

func (r *memUserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, errors.NotFound("User", nil)
}

func (r *memUserRepo) Update(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return errors.NotFound("User", nil)
	}
	r.users[user.ID] = user
	return nil
}

func (r *memUserRepo) List(ctx context.Context, role string, limit, offset int) ([]*entity.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.User
	for _, u := range r.users {
		if role == "" || string(u.Role) == role {
			copied := *u
			out = append(out, &copied)
		}
	}
	return out, int64(len(out)), nil
}

type memViolationRepo struct {
	mu         sync.Mutex
	violations map[string]*entity.TrafficViolation
}

func newMemViolationRepo(violations ...*entity.TrafficViolation) *memViolationRepo {
	r := &memViolationRepo{violations: make(map[string]*entity.TrafficViolation)}
	for _, v := range violations {
		r.violations[v.ID] = v
	}
	return r
}

func (r *memViolationRepo) Create(ctx context.Context, v *entity.TrafficViolation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if v.ID == "" {
		v.ID = fmt.Sprintf("violation-%d", len(r.violations)+1)
	}
	r.violations[v.ID] = v
	return nil
}

func (r *memViolationRepo) GetByID(ctx context.Context, id string) (*entity.TrafficViolation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.violations[id]
	if !ok {
		return nil, errors.NotFound("Violation", nil)
	}
	copied := *v
	return &copied, nil
}

func (r *memViolationRepo) GetByCode(ctx context.Context, code string) (*entity.TrafficViolation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, v := range r.violations {
		if v.Code == code {
			copied := *v
			return &copied, nil
		}
	}
	return nil, errors.NotFound("Violation", nil)
}

func (r *memViolationRepo) Update(ctx context.Context, v *entity.TrafficViolation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.violations[v.ID]; !ok {
		return errors.NotFound("Violation", nil)
	}
	r.violations[v.ID] = v
	return nil
}

func (r *memViolationRepo) List(ctx context.Context, filter repository.ViolationFilter, limit, offset int) ([]*entity.TrafficViolation, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.TrafficViolation
	for _, v := range r.violations {
		if filter.ActiveOnly && !v.IsActive {
			continue
		}
		if filter.Category != "" && string(v.Category) != filter.Category {
			continue
		}
		copied := *v
		out = append(out, &copied)
	}
	return out, int64(len(out)), nil
}

type memFineRepo struct {
	mu    sync.Mutex
	fines map[string]*entity.Fine
	notes []*entity.FineNote
	seq   int
}

func newMemFineRepo(fines ...*entity.Fine) *memFineRepo {
	r := &memFineRepo{fines: make(map[string]*entity.Fine)}
	for _, f := range fines {
		r.fines[f.ID] = f
	}
	return r
}

func (r *memFineRepo) Create(ctx context.Context, fine *entity.Fine) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if fine.ID == "" {
		r.seq++
		fine.ID = fmt.Sprintf("fine-%d", r.seq)
	}
	fine.CreatedAt = time.Now()
	fine.UpdatedAt = fine.CreatedAt
	copied := *fine
	r.fines[fine.ID] = &copied
	return nil
}

func (r *memFineRepo) GetByID(ctx context.Context, id string) (*entity.Fine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.fines[id]
	if !ok {
		return nil, errors.NotFound("Fine", nil)
	}
	copied := *f
	copied.Status = f.EffectiveStatus(time.Now())
	return &copied, nil
}

func (r *memFineRepo) Update(ctx context.Context, fine *entity.Fine) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.fines[fine.ID]; !ok {
		return errors.NotFound("Fine", nil)
	}
	fine.UpdatedAt = time.Now()
	copied := *fine
	r.fines[fine.ID] = &copied
	return nil
}

func (r *memFineRepo) List(ctx context.Context, filter repository.FineFilter, limit, offset int) ([]*entity.Fine, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	var out []*entity.Fine
	for _, f := range r.fines {
		if filter.DriverID != "" && f.DriverID != filter.DriverID {
			continue
		}
		if filter.OfficerID != "" && f.OfficerID != filter.OfficerID {
			continue
		}
		effective := f.EffectiveStatus(now)
		if filter.Status != "" && string(effective) != filter.Status {
			continue
		}
		copied := *f
		copied.Status = effective
		out = append(out, &copied)
	}
	return out, int64(len(out)), nil
}

func (r *memFineRepo) CountByStatus(ctx context.Context, filter repository.FineFilter) (map[string]int64, error) {
	fines, _, err := r.List(ctx, filter, 0, 0)
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64)
	for _, f := range fines {
		counts[string(f.Status)]++
	}
	return counts, nil
}

// MarkPaid mirrors the conditional transition the Firestore repository runs
// in a transaction: paid only from pending/overdue, no-op when already paid.
func (r *memFineRepo) MarkPaid(ctx context.Context, fineID string, payment entity.PaymentInfo) (*entity.Fine, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.fines[fineID]
	if !ok {
		return nil, false, errors.NotFound("Fine", nil)
	}

	switch f.EffectiveStatus(time.Now()) {
	case entity.FineStatusPending, entity.FineStatusOverdue:
		f.Status = entity.FineStatusPaid
		f.Payment = payment
		f.UpdatedAt = time.Now()
		copied := *f
		return &copied, true, nil
	case entity.FineStatusPaid:
		copied := *f
		return &copied, false, nil
	default:
		return nil, false, errors.InvalidState(
			fmt.Sprintf("Fine in status %s cannot be paid", f.Status), nil)
	}
}

// Transition mirrors the transactional mutation: apply runs against the
// stored record under the lock, so callers observe the current state.
func (r *memFineRepo) Transition(ctx context.Context, fineID string, apply func(fine *entity.Fine) error) (*entity.Fine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.fines[fineID]
	if !ok {
		return nil, errors.NotFound("Fine", nil)
	}

	copied := *f
	copied.Status = f.EffectiveStatus(time.Now())
	if err := apply(&copied); err != nil {
		return nil, err
	}

	copied.UpdatedAt = time.Now()
	r.fines[fineID] = &copied
	result := copied
	return &result, nil
}

func (r *memFineRepo) CreateNote(ctx context.Context, note *entity.FineNote) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	note.ID = fmt.Sprintf("note-%d", r.seq)
	note.CreatedAt = time.Now()
	copied := *note
	r.notes = append(r.notes, &copied)
	return nil
}

func (r *memFineRepo) ListNotesByFineID(ctx context.Context, fineID string) ([]*entity.FineNote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.FineNote
	for _, n := range r.notes {
		if n.FineID == fineID {
			copied := *n
			out = append(out, &copied)
		}
	}
	return out, nil
}

// fakeGateway scripts gateway responses per intent id.
type fakeGateway struct {
	intents       map[string]*service.PaymentIntent
	created       []service.CreateIntentRequest
	verifyErr     error
	event         *service.WebhookEvent
	createErr     error
	retrieveErr   error
	nextIntentSeq int
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{intents: make(map[string]*service.PaymentIntent)}
}

func (g *fakeGateway) CreateIntent(ctx context.Context, req service.CreateIntentRequest) (*service.PaymentIntent, error) {
	if g.createErr != nil {
		return nil, g.createErr
	}
	g.created = append(g.created, req)
	g.nextIntentSeq++
	intent := &service.PaymentIntent{
		ID:           fmt.Sprintf("pi_%d", g.nextIntentSeq),
		ClientSecret: fmt.Sprintf("pi_%d_secret", g.nextIntentSeq),
		Status:       service.IntentStatusPending,
		Metadata:     req.Metadata,
	}
	g.intents[intent.ID] = intent
	return intent, nil
}

func (g *fakeGateway) RetrieveIntent(ctx context.Context, intentID string) (*service.PaymentIntent, error) {
	if g.retrieveErr != nil {
		return nil, g.retrieveErr
	}
	intent, ok := g.intents[intentID]
	if !ok {
		return nil, errors.NotFound("Payment intent", nil)
	}
	return intent, nil
}

func (g *fakeGateway) VerifyNotification(payload []byte, signatureHeader string) (*service.WebhookEvent, error) {
	if g.verifyErr != nil {
		return nil, g.verifyErr
	}
	return g.event, nil
}

// fakeAuthClient keeps credentials and issued tokens in memory.
type fakeAuthClient struct {
	mu        sync.Mutex
	passwords map[string]string // email -> password
	emails    map[string]string // uid -> email
	tokens    map[string]string // token -> uid
	seq       int
}

func newFakeAuthClient() *fakeAuthClient {
	return &fakeAuthClient{
		passwords: make(map[string]string),
		emails:    make(map[string]string),
		tokens:    make(map[string]string),
	}
}

func (a *fakeAuthClient) register(uid, email, password string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.emails[uid] = email
	a.passwords[email] = password
}

func (a *fakeAuthClient) CreateUser(ctx context.Context, email, password, displayName string) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.seq++
	uid := fmt.Sprintf("uid-%d", a.seq)
	a.emails[uid] = email
	a.passwords[email] = password
	return uid, nil
}

func (a *fakeAuthClient) VerifyToken(ctx context.Context, token string) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	uid, ok := a.tokens[token]
	if !ok {
		return "", fmt.Errorf("invalid token")
	}
	return uid, nil
}

func (a *fakeAuthClient) GenerateToken(ctx context.Context, uid string) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.seq++
	token := fmt.Sprintf("token-%d", a.seq)
	a.tokens[token] = uid
	return token, nil
}

func (a *fakeAuthClient) SignInWithEmailPassword(email, password string) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	stored, ok := a.passwords[email]
	if !ok || stored != password {
		return "", fmt.Errorf("invalid credentials")
	}
	for uid, e := range a.emails {
		if e == email {
			a.seq++
			token := fmt.Sprintf("token-%d", a.seq)
			a.tokens[token] = uid
			return token, nil
		}
	}
	return "", fmt.Errorf("invalid credentials")
}

func (a *fakeAuthClient) UpdateUserPassword(ctx context.Context, uid, newPassword string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	email, ok := a.emails[uid]
	if !ok {
		return fmt.Errorf("user not found")
	}
	a.passwords[email] = newPassword
	return nil
}
