// Package auth resolves the tenant and operator of a request from a
// server-side session.
//
// Session keys should be 32 or 64 bytes for HMAC authentication,
// and 16, 24, or 32 bytes for AES encryption. Production deployments
// must use cryptographically random keys generated with:
//
//	openssl rand -base64 32
package auth

import (
	"context"
	"encoding/base32"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"github.com/redis/go-redis/v9"
)

const (
	sessionKeyPrefix = "exportdesk:session:"
	sessionMaxAge    = 8 * time.Hour // one working shift
)

// RedisStore is a sessions.Store that keeps session values in Redis. The
// cookie only carries the signed and encrypted session ID.
//
// A session is a Redis hash "exportdesk:session:<id>" holding string fields
// (org_id, operator). Every successful read slides the expiry forward, so an
// operator stays signed in while active and is dropped after a shift of
// inactivity.
type RedisStore struct {
	client  *redis.Client
	codecs  []securecookie.Codec
	options *sessions.Options
}

// NewSessionStore creates a Redis-backed session store. Pass secureCookie
// true in production so the cookie is only sent over HTTPS.
func NewSessionStore(client *redis.Client, authKey, encryptionKey []byte, secureCookie bool) *RedisStore {
	return &RedisStore{
		client: client,
		codecs: securecookie.CodecsFromPairs(authKey, encryptionKey),
		options: &sessions.Options{
			Path:     "/",
			MaxAge:   int(sessionMaxAge.Seconds()),
			HttpOnly: true,
			Secure:   secureCookie,
			SameSite: http.SameSiteLaxMode,
		},
	}
}

// Get returns the request-cached session for name.
func (s *RedisStore) Get(r *http.Request, name string) (*sessions.Session, error) {
	return sessions.GetRegistry(r).Get(s, name)
}

// New loads the session named by the request cookie. A missing, tampered or
// expired session yields a fresh empty session and no error.
func (s *RedisStore) New(r *http.Request, name string) (*sessions.Session, error) {
	session := sessions.NewSession(s, name)
	opts := *s.options
	session.Options = &opts
	session.IsNew = true

	c, err := r.Cookie(name)
	if err != nil {
		return session, nil
	}
	var id string
	if err := securecookie.DecodeMulti(name, c.Value, &id, s.codecs...); err != nil {
		return session, nil
	}

	fields, err := s.load(r.Context(), id)
	if err != nil || len(fields) == 0 {
		return session, nil
	}
	session.ID = id
	for k, v := range fields {
		session.Values[k] = v
	}
	session.IsNew = false
	return session, nil
}

// Save writes the session hash and the cookie. MaxAge < 0 deletes both.
func (s *RedisStore) Save(r *http.Request, w http.ResponseWriter, session *sessions.Session) error {
	ctx := r.Context()
	if session.Options.MaxAge < 0 {
		if session.ID != "" {
			_ = s.client.Del(ctx, sessionKeyPrefix+session.ID).Err()
		}
		http.SetCookie(w, sessions.NewCookie(session.Name(), "", session.Options))
		return nil
	}

	fields, err := stringFields(session.Values)
	if err != nil {
		return err
	}
	if session.ID == "" {
		session.ID = strings.TrimRight(base32.StdEncoding.EncodeToString(securecookie.GenerateRandomKey(32)), "=")
	}
	if err := s.save(ctx, session.ID, fields, time.Duration(session.Options.MaxAge)*time.Second); err != nil {
		return err
	}

	encoded, err := securecookie.EncodeMulti(session.Name(), session.ID, s.codecs...)
	if err != nil {
		return fmt.Errorf("encode session cookie: %w", err)
	}
	http.SetCookie(w, sessions.NewCookie(session.Name(), encoded, session.Options))
	return nil
}

func (s *RedisStore) save(ctx context.Context, id string, fields map[string]string, ttl time.Duration) error {
	key := sessionKeyPrefix + id
	_, err := s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Del(ctx, key)
		if len(fields) > 0 {
			p.HSet(ctx, key, fields)
		}
		p.Expire(ctx, key, ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	return nil
}

func (s *RedisStore) load(ctx context.Context, id string) (map[string]string, error) {
	key := sessionKeyPrefix + id
	var fields *redis.MapStringStringCmd
	_, err := s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		fields = p.HGetAll(ctx, key)
		p.Expire(ctx, key, sessionMaxAge)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	return fields.Val(), nil
}

// stringFields flattens session values into hash fields. Only string keys
// and values are stored; anything else is a programming error.
func stringFields(values map[any]any) (map[string]string, error) {
	out := make(map[string]string, len(values))
	for k, v := range values {
		ks, ok := k.(string)
		if !ok {
			return nil, fmt.Errorf("session key %v is not a string", k)
		}
		vs, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("session value for %q is %T, want string", ks, v)
		}
		out[ks] = vs
	}
	return out, nil
}
