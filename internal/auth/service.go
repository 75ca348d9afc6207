package auth

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/vivimart/storefront-backend/pkg/auth"
	"github.com/vivimart/storefront-backend/pkg/config"
	pkgerrors "github.com/vivimart/storefront-backend/pkg/errors"
	"github.com/vivimart/storefront-backend/pkg/logger"
	"github.com/vivimart/storefront-backend/pkg/security"
)

var phonePattern = regexp.MustCompile(`^[0-9]{10}$`)

// challenge is the hashed OTP state parked in Redis while the customer
// types the code in.
type challenge struct {
	Hash      string    `json:"hash"`
	Attempts  int       `json:"attempts"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Sender delivers the one-time code to the customer. Production wires an
// SMS gateway, dev logs the code.
type Sender interface {
	SendCode(ctx context.Context, phone, code string) error
}

// Store is the key-value surface the OTP flow needs.
type Store interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	UpdateString(ctx context.Context, key string, fn func(current string, exists bool) (next string, del bool, err error)) error
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
	OTPKey(phone string) string
}

// Session is the outcome of a successful verification.
type Session struct {
	AccessToken string    `json:"access_token"`
	Phone       string    `json:"phone"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type Service interface {
	RequestCode(ctx context.Context, phone, clientIP string) error
	VerifyCode(ctx context.Context, phone, code string) (*Session, error)
}

type service struct {
	store    Store
	sender   Sender
	otpCfg   config.OTPConfig
	jwtCfg   config.JWTConfig
	limitCfg config.AuthRateLimitConfig
	logg     *logger.Logger
	now      func() time.Time
}

func NewService(store Store, sender Sender, otpCfg config.OTPConfig, jwtCfg config.JWTConfig, limitCfg config.AuthRateLimitConfig, logg *logger.Logger) (Service, error) {
	if store == nil {
		return nil, errors.New("auth store is required")
	}
	if sender == nil {
		return nil, errors.New("otp sender is required")
	}
	if logg == nil {
		return nil, errors.New("logger is required")
	}
	return &service{
		store:    store,
		sender:   sender,
		otpCfg:   otpCfg,
		jwtCfg:   jwtCfg,
		limitCfg: limitCfg,
		logg:     logg,
		now:      time.Now,
	}, nil
}

func (s *service) RequestCode(ctx context.Context, phone, clientIP string) error {
	phone = strings.TrimSpace(phone)
	if !phonePattern.MatchString(phone) {
		return pkgerrors.New(pkgerrors.CodeValidation, "phone must be 10 digits")
	}

	if err := s.checkRateLimits(ctx, phone, clientIP); err != nil {
		return err
	}

	code, err := security.GenerateCode(s.otpCfg.CodeLength)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate code")
	}
	hash, err := security.HashCode(code, s.otpCfg)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash code")
	}

	now := s.now()
	blob, err := json.Marshal(challenge{
		Hash:      hash,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.otpCfg.TTL),
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode challenge")
	}

	// A re-request replaces the outstanding challenge and resets attempts.
	if err := s.store.Set(ctx, s.store.OTPKey(phone), string(blob), s.otpCfg.TTL); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store challenge")
	}

	if err := s.sender.SendCode(ctx, phone, code); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "send code")
	}

	s.logg.Info(s.logg.WithPhone(ctx, phone), "otp challenge issued")
	return nil
}

func (s *service) VerifyCode(ctx context.Context, phone, code string) (*Session, error) {
	phone = strings.TrimSpace(phone)
	if !phonePattern.MatchString(phone) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "phone must be 10 digits")
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "code is required")
	}

	key := s.store.OTPKey(phone)
	var matched bool
	// Mismatches persist the incremented attempt counter, so the callback
	// only errors for outcomes that need no write.
	err := s.store.UpdateString(ctx, key, func(current string, exists bool) (string, bool, error) {
		if !exists {
			return "", false, pkgerrors.New(pkgerrors.CodeUnauthorized, "no active code for this phone")
		}
		var ch challenge
		if err := json.Unmarshal([]byte(current), &ch); err != nil {
			return "", false, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "corrupt challenge")
		}
		if s.now().After(ch.ExpiresAt) {
			return "", false, pkgerrors.New(pkgerrors.CodeUnauthorized, "code expired")
		}
		if ch.Attempts >= s.otpCfg.MaxAttempts {
			return "", false, pkgerrors.New(pkgerrors.CodeUnauthorized, "too many attempts")
		}

		ok, err := security.VerifyCode(code, ch.Hash)
		if err != nil {
			return "", false, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify code")
		}
		if !ok {
			ch.Attempts++
			blob, marshalErr := json.Marshal(ch)
			if marshalErr != nil {
				return "", false, pkgerrors.Wrap(pkgerrors.CodeInternal, marshalErr, "encode challenge")
			}
			return string(blob), false, nil
		}

		matched = true
		return "", true, nil
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "verify challenge")
	}
	if !matched {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "incorrect code")
	}

	now := s.now()
	token, err := auth.MintAccessToken(s.jwtCfg, now, auth.AccessTokenPayload{Phone: phone})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint token")
	}

	s.logg.Info(s.logg.WithPhone(ctx, phone), "otp verified")
	return &Session{
		AccessToken: token,
		Phone:       phone,
		ExpiresAt:   now.Add(time.Duration(s.jwtCfg.ExpirationMinutes) * time.Minute),
	}, nil
}

func (s *service) checkRateLimits(ctx context.Context, phone, clientIP string) error {
	if s.limitCfg.OTPPhoneLimit > 0 {
		allowed, _, err := s.store.FixedWindowAllow(ctx, "otp:phone:"+phone, int64(s.limitCfg.OTPPhoneLimit), s.limitCfg.OTPWindow)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rate limit check")
		}
		if !allowed {
			return pkgerrors.New(pkgerrors.CodeRateLimit, "too many code requests for this phone")
		}
	}
	clientIP = strings.TrimSpace(clientIP)
	if s.limitCfg.OTPIPLimit > 0 && clientIP != "" {
		allowed, _, err := s.store.FixedWindowAllow(ctx, "otp:ip:"+clientIP, int64(s.limitCfg.OTPIPLimit), s.limitCfg.OTPWindow)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rate limit check")
		}
		if !allowed {
			return pkgerrors.New(pkgerrors.CodeRateLimit, "too many code requests from this address")
		}
	}
	return nil
}

// LogSender writes the code to the application log. Dev only.
type LogSender struct {
	Logg *logger.Logger
}

func (l *LogSender) SendCode(ctx context.Context, phone, code string) error {
	if l.Logg == nil {
		return errors.New("log sender has no logger")
	}
	l.Logg.Info(l.Logg.WithFields(ctx, map[string]any{"phone": phone, "code": code}), "otp code issued")
	return nil
}
