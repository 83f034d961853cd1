package application

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"math/big"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/erpmodern/auth-service/internal/domain/entity"
	repo "github.com/erpmodern/auth-service/internal/domain/repository"
	"github.com/erpmodern/auth-service/pkg/helpers"
	"github.com/erpmodern/auth-service/pkg/mailer"
	"github.com/erpmodern/auth-service/pkg/password"
)

// Outward failure modes. Internally distinct causes (unknown user,
// inactive account, wrong password, store failure) are logged with
// context but collapse to these so responses cannot be used to enumerate
// accounts.
var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrAccountLocked      = errors.New("account temporarily locked")
	ErrUnavailable        = errors.New("authentication unavailable")
)

// Service orchestrates the login use case: credential lookup, dual-format
// password verification, one-way legacy migration, lockout bookkeeping,
// and token issuance.
type Service struct {
	Repo   repo.UserRepository
	Hasher *password.Hasher
	JWT    *helpers.JWTManager
	Logger *logrus.Logger

	// Best-effort collaborators; each may be nil.
	Redis        *redis.Client
	Alerts       *helpers.RabbitPublisher
	ES           *elasticsearch.Client
	ESAuditIndex string

	LockoutThreshold int
	LockoutDuration  time.Duration

	// Random pre-response delay, the same for every outcome, so response
	// timing leaks less about which gate failed. Spread of zero disables
	// the delay (tests).
	JitterBase   time.Duration
	JitterSpread time.Duration
}

type LoginResult struct {
	Token       string
	TokenExpiry time.Time
	UserID      string
	Username    string
	Role        string
}

func NewService(repo repo.UserRepository, hasher *password.Hasher, jwt *helpers.JWTManager, logger *logrus.Logger,
	rdb *redis.Client, alerts *helpers.RabbitPublisher, es *elasticsearch.Client, esAuditIndex string,
	lockoutThreshold int, lockoutDuration time.Duration) *Service {
	return &Service{
		Repo:             repo,
		Hasher:           hasher,
		JWT:              jwt,
		Logger:           logger,
		Redis:            rdb,
		Alerts:           alerts,
		ES:               es,
		ESAuditIndex:     esAuditIndex,
		LockoutThreshold: lockoutThreshold,
		LockoutDuration:  lockoutDuration,
		JitterBase:       25 * time.Millisecond,
		JitterSpread:     50 * time.Millisecond,
	}
}

// Login authenticates username/password and issues a signed session token.
//
// Each gate is hard: unknown or inactive users and wrong passwords all
// yield ErrInvalidCredentials; a currently locked account yields
// ErrAccountLocked without touching the failure counter; store failures
// yield ErrUnavailable with the detail kept server-side.
func (s *Service) Login(ctx context.Context, username, pass string) (*LoginResult, error) {
	defer s.loginDelay()

	now := time.Now()

	u, err := s.Repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			s.Logger.WithField("username", username).Debug("login: unknown username")
			return nil, ErrInvalidCredentials
		}
		s.Logger.WithError(err).WithField("username", username).Error("login: user lookup failed")
		return nil, ErrUnavailable
	}

	if !u.IsActive {
		s.Logger.WithField("user_id", u.ID).Info("login: inactive account")
		return nil, ErrInvalidCredentials
	}

	if u.IsLocked(now) {
		s.Logger.WithFields(logrus.Fields{
			"user_id":      u.ID,
			"locked_until": u.LockedUntil,
		}).Info("login: account locked")
		return nil, ErrAccountLocked
	}

	ok := s.verifyAndMigrate(ctx, u, pass)
	if !ok {
		return nil, s.recordFailure(ctx, u, now)
	}

	// Clear lockout state accumulated before this success.
	if u.HasLockoutState() {
		u.RecordLoginSuccess()
		if err := s.Repo.Update(ctx, u); err != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("login: lockout reset write failed")
			return nil, ErrUnavailable
		}
	}

	token, exp, err := s.JWT.Issue(u.ID, u.Username, u.Role)
	if err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Error("login: token issuance failed")
		return nil, ErrUnavailable
	}

	s.recordSession(ctx, u)
	s.auditEvent(ctx, "login_success", u, nil)

	return &LoginResult{
		Token:       token,
		TokenExpiry: exp,
		UserID:      u.ID,
		Username:    u.Username,
		Role:        u.Role,
	}, nil
}

// verifyAndMigrate dispatches on the stored hash format, resolved once.
// A successful legacy verification triggers the one-way migration to the
// current format; the migration write is best-effort and never blocks the
// login, but a failure is logged loudly because the account stays on the
// legacy path until its next successful login.
func (s *Service) verifyAndMigrate(ctx context.Context, u *entity.User, pass string) bool {
	switch password.DetectFormat(u.PasswordHash) {
	case password.FormatCurrent:
		return s.Hasher.Verify(u.PasswordHash, pass)
	case password.FormatLegacy:
		if !password.VerifyLegacy(u.PasswordHash, pass) {
			return false
		}
		s.migrateHash(ctx, u, pass)
		return true
	}
	return false
}

func (s *Service) migrateHash(ctx context.Context, u *entity.User, pass string) {
	newHash, err := s.Hasher.Hash(pass)
	if err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Error("legacy migration: rehash failed, account stays on legacy hash")
		return
	}
	if err := u.UpdatePasswordHash(newHash); err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Error("legacy migration: rejected hash")
		return
	}
	if err := s.Repo.Update(ctx, u); err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Error("legacy migration: persist failed, account stays on legacy hash")
		return
	}
	s.Logger.WithField("user_id", u.ID).Info("legacy hash migrated to current format")
	s.auditEvent(ctx, "password_migrated", u, nil)
}

func (s *Service) recordFailure(ctx context.Context, u *entity.User, now time.Time) error {
	locked := u.RecordFailedLogin(now, s.LockoutThreshold, s.LockoutDuration)
	if err := s.Repo.Update(ctx, u); err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Error("login: failure counter write failed")
	}

	fields := logrus.Fields{"user_id": u.ID, "failed_attempts": u.FailedLoginAttempts}
	if locked {
		fields["locked_until"] = u.LockedUntil
		s.Logger.WithFields(fields).Warn("login: account locked after repeated failures")
		s.publishLockAlert(ctx, u)
		s.auditEvent(ctx, "account_locked", u, map[string]any{"locked_until": u.LockedUntil})
	} else {
		s.Logger.WithFields(fields).Info("login: bad credentials")
		s.auditEvent(ctx, "login_failure", u, map[string]any{"failed_attempts": u.FailedLoginAttempts})
	}

	return ErrInvalidCredentials
}

func (s *Service) publishLockAlert(ctx context.Context, u *entity.User) {
	if s.Alerts == nil || u.LockedUntil == nil {
		return
	}
	job := mailer.AlertJob{
		Type:        mailer.JobAccountLocked,
		To:          u.Email,
		Username:    u.Username,
		LockedUntil: *u.LockedUntil,
		OccurredAt:  time.Now().UTC(),
	}
	if err := s.Alerts.PublishJSON(ctx, job); err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("lockout alert publish failed")
	}
}

// recordSession writes a best-effort last-login record to redis. Nothing
// in the authentication path reads it back; tokens stay stateless.
func (s *Service) recordSession(ctx context.Context, u *entity.User) {
	if s.Redis == nil {
		return
	}
	key := helpers.KeySession(u.ID)
	pipe := s.Redis.Pipeline()
	pipe.HSet(ctx, key, map[string]any{
		"user_id":   u.ID,
		"username":  u.Username,
		"role":      u.Role,
		"logged_in": time.Now().UTC().Format(time.RFC3339Nano),
	})
	pipe.Expire(ctx, key, 24*time.Hour)
	if _, err := pipe.Exec(ctx); err != nil {
		s.Logger.WithError(err).WithField("key", key).Warn("redis session record failed")
	}
}

func (s *Service) auditEvent(ctx context.Context, event string, u *entity.User, extra map[string]any) {
	if s.ES == nil || s.ESAuditIndex == "" {
		return
	}
	doc := map[string]any{
		"event":    event,
		"user_id":  u.ID,
		"username": u.Username,
		"at":       time.Now().UTC().Format(time.RFC3339Nano),
	}
	for k, v := range extra {
		doc[k] = v
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESAuditIndex, DocumentID: uuid.NewString(), Body: strings.NewReader(string(b)), Refresh: "false"}

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		s.Logger.WithError(err).WithField("event", event).Warn("audit index failed")
		return
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		s.Logger.WithFields(logrus.Fields{"status": res.Status(), "event": event}).Warn("audit index response error")
	}
}

// loginDelay sleeps for a small random duration drawn from the same
// distribution on every path out of Login.
func (s *Service) loginDelay() {
	if s.JitterSpread <= 0 {
		return
	}
	d := s.JitterBase
	if n, err := rand.Int(rand.Reader, big.NewInt(int64(s.JitterSpread))); err == nil {
		d += time.Duration(n.Int64())
	}
	time.Sleep(d)
}
