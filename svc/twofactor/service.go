package twofactor

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/boardly/boardly/pkg/logger"
	"github.com/boardly/boardly/pkg/qrcode"
	"github.com/boardly/boardly/pkg/ratelimiter"
	"github.com/boardly/boardly/pkg/secretbox"
	"github.com/boardly/boardly/pkg/totp"
)

// AttemptLimiter throttles code submissions per user. *ratelimiter.Bucket
// satisfies it.
type AttemptLimiter interface {
	Allow(ctx context.Context, key string) (*ratelimiter.Result, error)
	Reset(ctx context.Context, key string) error
}

// Enrollment is what the setup screen shows. Secret must be kept server-side
// (in the session) until Activate confirms it.
type Enrollment struct {
	Secret string
	URI    string
	QRCode string
}

// Service manages enrollment and verification of TOTP second factors. The
// stored secret goes through the codec on every write and read.
type Service struct {
	storage       Storage
	codec         secretbox.Codec
	issuer        string
	recoveryCodes int
	limiter       AttemptLimiter
	now           func() time.Time
	logger        *slog.Logger
}

type Option func(*Service)

func WithIssuer(issuer string) Option {
	return func(s *Service) {
		if issuer != "" {
			s.issuer = issuer
		}
	}
}

func WithRecoveryCodeCount(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.recoveryCodes = n
		}
	}
}

// WithAttemptLimiter enables per-user throttling of Verify and VerifyRecoveryCode.
func WithAttemptLimiter(l AttemptLimiter) Option {
	return func(s *Service) {
		s.limiter = l
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

func NewService(storage Storage, codec secretbox.Codec, opts ...Option) *Service {
	s := &Service{
		storage:       storage,
		codec:         codec,
		issuer:        "Boardly",
		recoveryCodes: totp.DefaultRecoveryCodes,
		now:           time.Now,
		logger:        logger.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.codec == nil {
		s.codec = secretbox.NullCodec{}
	}
	s.logger = s.logger.With(logger.Component("twofactor.service"))
	return s
}

// Enabled reports whether the user has an active second factor.
func (s *Service) Enabled(ctx context.Context, userID uuid.UUID) (bool, error) {
	_, err := s.storage.Get(ctx, userID)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrNotEnabled):
		return false, nil
	default:
		return false, err
	}
}

// Setup generates a fresh secret for account. Nothing is stored.
func (s *Service) Setup(ctx context.Context, userID uuid.UUID, account string) (Enrollment, error) {
	enabled, err := s.Enabled(ctx, userID)
	if err != nil {
		return Enrollment{}, err
	}
	if enabled {
		return Enrollment{}, ErrAlreadyEnabled
	}

	enr, err := totp.Enroll(s.issuer, account)
	if err != nil {
		return Enrollment{}, err
	}
	qr, err := qrcode.OTPAuth(enr.URI, 0)
	if err != nil {
		return Enrollment{}, err
	}
	return Enrollment{Secret: enr.Secret, URI: enr.URI, QRCode: qr}, nil
}

// Activate confirms a pending secret with a code from the authenticator app,
// stores it encrypted and returns the plaintext recovery codes. They are shown
// once; only their hashes are kept.
func (s *Service) Activate(ctx context.Context, userID uuid.UUID, pendingSecret, code string) ([]string, error) {
	if pendingSecret == "" {
		return nil, ErrSetupExpired
	}
	enabled, err := s.Enabled(ctx, userID)
	if err != nil {
		return nil, err
	}
	if enabled {
		return nil, ErrAlreadyEnabled
	}

	if err := s.checkCode(pendingSecret, code); err != nil {
		return nil, err
	}

	sealed, err := s.codec.MaybeEncrypt(pendingSecret)
	if err != nil {
		return nil, errors.Join(ErrSecretUnavailable, err)
	}

	codes, err := totp.GenerateRecoveryCodes(s.recoveryCodes)
	if err != nil {
		return nil, err
	}
	hashes := make([]string, len(codes))
	for i, c := range codes {
		hashes[i] = totp.HashRecoveryCode(c)
	}

	now := s.now()
	if err := s.storage.Save(ctx, &Record{
		UserID:        userID,
		Secret:        sealed,
		RecoveryCodes: hashes,
		EnabledAt:     now,
		UpdatedAt:     now,
	}); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "two-factor enabled",
		logger.UserID(userID.String()),
		slog.Bool("encrypted", secretbox.IsEncrypted(sealed)),
	)
	return codes, nil
}

// Verify checks a TOTP code against the user's stored secret. A secret stored
// as plaintext before encryption was configured is re-sealed on success.
func (s *Service) Verify(ctx context.Context, userID uuid.UUID, code string) error {
	if err := s.allow(ctx, userID); err != nil {
		return err
	}

	rec, err := s.storage.Get(ctx, userID)
	if err != nil {
		return err
	}

	secret, err := s.codec.MaybeDecrypt(rec.Secret)
	if err != nil {
		// wrong key or tampered row: the code cannot be checked at all
		s.logger.ErrorContext(ctx, "stored TOTP secret cannot be opened",
			logger.UserID(userID.String()),
			logger.Error(err),
		)
		return errors.Join(ErrSecretUnavailable, err)
	}

	if err := s.checkCode(secret, code); err != nil {
		return err
	}

	s.resetAttempts(ctx, userID)
	s.upgradeLegacy(ctx, rec, secret)
	return nil
}

// VerifyRecoveryCode spends one recovery code. Each code works once.
func (s *Service) VerifyRecoveryCode(ctx context.Context, userID uuid.UUID, code string) error {
	if err := s.allow(ctx, userID); err != nil {
		return err
	}

	ok, err := s.storage.ConsumeRecoveryCode(ctx, userID, totp.HashRecoveryCode(code))
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidCode
	}

	s.resetAttempts(ctx, userID)
	s.logger.InfoContext(ctx, "recovery code used", logger.UserID(userID.String()))
	return nil
}

// RemainingRecoveryCodes returns how many unused recovery codes the user has.
func (s *Service) RemainingRecoveryCodes(ctx context.Context, userID uuid.UUID) (int, error) {
	rec, err := s.storage.Get(ctx, userID)
	if err != nil {
		return 0, err
	}
	return len(rec.RecoveryCodes), nil
}

// Deactivate removes the second factor after checking a current code.
func (s *Service) Deactivate(ctx context.Context, userID uuid.UUID, code string) error {
	if err := s.Verify(ctx, userID, code); err != nil {
		return err
	}
	if err := s.storage.Delete(ctx, userID); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "two-factor disabled", logger.UserID(userID.String()))
	return nil
}

func (s *Service) checkCode(secret, code string) error {
	ok, err := totp.ValidateAt(secret, code, s.now())
	if err != nil {
		if errors.Is(err, totp.ErrInvalidOTP) {
			return ErrInvalidCode
		}
		return errors.Join(ErrSecretUnavailable, err)
	}
	if !ok {
		return ErrInvalidCode
	}
	return nil
}

func (s *Service) allow(ctx context.Context, userID uuid.UUID) error {
	if s.limiter == nil {
		return nil
	}
	res, err := s.limiter.Allow(ctx, attemptKey(userID))
	if err != nil {
		return err
	}
	if !res.Allowed() {
		s.logger.WarnContext(ctx, "two-factor attempts throttled", logger.UserID(userID.String()))
		return ErrTooManyAttempts
	}
	return nil
}

func (s *Service) resetAttempts(ctx context.Context, userID uuid.UUID) {
	if s.limiter == nil {
		return
	}
	if err := s.limiter.Reset(ctx, attemptKey(userID)); err != nil {
		s.logger.WarnContext(ctx, "failed to reset attempt counter", logger.Error(err))
	}
}

// upgradeLegacy re-seals a plaintext secret. Only the secret is written, and
// only if it is still the plaintext just verified: rewriting the whole record
// would bring back recovery codes spent since it was read.
func (s *Service) upgradeLegacy(ctx context.Context, rec *Record, secret string) {
	if !s.codec.Enabled() || secretbox.IsEncrypted(rec.Secret) {
		return
	}
	sealed, err := s.codec.Encrypt(secret)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to seal legacy TOTP secret", logger.Error(err))
		return
	}
	replaced, err := s.storage.ReplaceSecret(ctx, rec.UserID, rec.Secret, sealed)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to store sealed TOTP secret", logger.Error(err))
		return
	}
	if !replaced {
		s.logger.DebugContext(ctx, "TOTP secret changed before it could be sealed", logger.UserID(rec.UserID.String()))
		return
	}
	s.logger.InfoContext(ctx, "legacy TOTP secret encrypted", logger.UserID(rec.UserID.String()))
}

func attemptKey(userID uuid.UUID) string {
	return "2fa:" + userID.String()
}
