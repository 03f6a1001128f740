package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	apperrors "github.com/roeeblo/smart-job-tracker/internal/errors"
	"github.com/roeeblo/smart-job-tracker/internal/model"
	"github.com/roeeblo/smart-job-tracker/internal/provider"
	"github.com/roeeblo/smart-job-tracker/internal/repository"
	"github.com/roeeblo/smart-job-tracker/pkg/redis"
)

// fakeUserRepo is an in-memory UserRepository for service tests.
type fakeUserRepo struct {
	users  map[uint]*model.User
	nextID uint
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uint]*model.User), nextID: 1}
}

func (r *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	for _, u := range r.users {
		if u.Email == user.Email {
			return apperrors.ErrEmailExists
		}
	}
	user.ID = r.nextID
	user.CreatedAt = time.Now()
	r.nextID++
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uint) (*model.User, error) {
	if u, ok := r.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, apperrors.ErrUserNotFound
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (r *fakeUserRepo) FindByGoogleID(_ context.Context, googleID string) (*model.User, error) {
	for _, u := range r.users {
		if u.GoogleID != nil && *u.GoogleID == googleID {
			copied := *u
			return &copied, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (r *fakeUserRepo) FindByVerifyToken(_ context.Context, token string) (*model.User, error) {
	for _, u := range r.users {
		if u.VerifyToken != nil && *u.VerifyToken == token {
			copied := *u
			return &copied, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (r *fakeUserRepo) Update(_ context.Context, user *model.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return apperrors.ErrUserNotFound
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) UpdateLastLogin(_ context.Context, id uint, at time.Time) error {
	if u, ok := r.users[id]; ok {
		u.LastLogin = &at
		return nil
	}
	return apperrors.ErrUserNotFound
}

func (r *fakeUserRepo) Transaction(_ context.Context, fn func(tx repository.UserRepository) error) error {
	return fn(r)
}

// fakeJobRepo is an in-memory JobRepository.
type fakeJobRepo struct {
	jobs   map[uint]*model.JobApplication
	nextID uint
}

func newFakeJobRepo() *fakeJobRepo {
	return &fakeJobRepo{jobs: make(map[uint]*model.JobApplication), nextID: 1}
}

func (r *fakeJobRepo) ListByUser(_ context.Context, userID uint) ([]model.JobApplication, error) {
	var out []model.JobApplication
	for _, j := range r.jobs {
		if j.UserID == userID {
			out = append(out, *j)
		}
	}
	sort.Slice(out, func(i, k int) bool { return out[i].ID > out[k].ID })
	return out, nil
}

func (r *fakeJobRepo) FindByID(_ context.Context, id, userID uint) (*model.JobApplication, error) {
	if j, ok := r.jobs[id]; ok && j.UserID == userID {
		copied := *j
		return &copied, nil
	}
	return nil, apperrors.ErrJobNotFound
}

func (r *fakeJobRepo) FindForDedup(_ context.Context, userID uint, company, role, notes string) (bool, error) {
	for _, j := range r.jobs {
		if j.UserID != userID {
			continue
		}
		if strings.EqualFold(j.Company, company) && strings.EqualFold(j.Role, role) {
			return true, nil
		}
		if notes != "" && j.Notes == notes {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeJobRepo) Create(_ context.Context, job *model.JobApplication) error {
	job.ID = r.nextID
	job.CreatedAt = time.Now()
	r.nextID++
	copied := *job
	r.jobs[job.ID] = &copied
	return nil
}

func (r *fakeJobRepo) UpdateFields(_ context.Context, id, userID uint, fields map[string]interface{}) (*model.JobApplication, error) {
	j, ok := r.jobs[id]
	if !ok || j.UserID != userID {
		return nil, apperrors.ErrJobNotFound
	}
	for name, value := range fields {
		s, _ := value.(string)
		switch name {
		case "company":
			j.Company = s
		case "role":
			j.Role = s
		case "status":
			j.Status = s
		case "source":
			j.Source = s
		case "location":
			j.Location = s
		case "notes":
			j.Notes = s
		}
	}
	copied := *j
	return &copied, nil
}

func (r *fakeJobRepo) Delete(_ context.Context, id, userID uint) error {
	if j, ok := r.jobs[id]; ok && j.UserID == userID {
		delete(r.jobs, id)
		return nil
	}
	return apperrors.ErrJobNotFound
}

func (r *fakeJobRepo) Transaction(_ context.Context, fn func(tx repository.JobRepository) error) error {
	return fn(r)
}

// fakeMailer records verification sends.
type fakeMailer struct {
	sent []sentMail
}

type sentMail struct {
	To   string
	Link string
}

func (m *fakeMailer) SendVerification(to, _, link string) error {
	m.sent = append(m.sent, sentMail{To: to, Link: link})
	return nil
}

// fakeGoogle scripts the provider round-trips.
type fakeGoogle struct {
	exchangeErr error
	identity    *provider.Identity
	identityErr error
	exchanged   []string
}

func (g *fakeGoogle) ExchangeCode(_ context.Context, code, _ string) (*provider.TokenResponse, error) {
	g.exchanged = append(g.exchanged, code)
	if g.exchangeErr != nil {
		return nil, g.exchangeErr
	}
	return &provider.TokenResponse{AccessToken: "at", IDToken: "idt"}, nil
}

func (g *fakeGoogle) VerifyIDToken(_ context.Context, _ string) (*provider.Identity, error) {
	if g.identityErr != nil {
		return nil, g.identityErr
	}
	return g.identity, nil
}

// newTestCache returns a cache backed by the disabled redis client.
func newTestCache() *JobCache {
	return NewJobCache(redis.NewClient(redis.Config{}, zap.NewNop()), time.Minute)
}
