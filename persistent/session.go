package persistent

import (
	"context"
	crand "crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/peopledeck/deck"
	"github.com/sirupsen/logrus"
	"github.com/tidwall/buntdb"
)

const sessionTTL = 12 * time.Hour

type Session struct {
	Id             string        `json:"id"`
	Token          string        `json:"token"`
	RolesNames     []deck.RoleId `json:"roles"`
	Ip             string        `json:"ip"`
	UserAgent      string        `json:"userAgent"`
	LastAccessedAt time.Time     `json:"lastAccessedAt"`
	ExpiresAt      time.Time     `json:"expiresAt"`
}

func (s Session) ToDomain() deck.Session {
	roles := make(deck.Roles, 0, len(s.RolesNames))
	for _, name := range s.RolesNames {
		role, ok := deck.AllRoles[name]
		if ok {
			roles = append(roles, role)
		}
	}
	return deck.Session{
		Id:             s.Id,
		Token:          s.Token,
		Roles:          roles,
		Ip:             s.Ip,
		UserAgent:      s.UserAgent,
		LastAccessedAt: s.LastAccessedAt,
		ExpiresAt:      s.ExpiresAt,
	}
}

// SessionStore keeps admin-mode grants in buntdb. Opened on an in-memory
// database it forgets every grant on restart, which is the wanted
// lifecycle for the elevated view context.
type SessionStore struct {
	Buntdb        *buntdb.DB
	ActivityStore deck.ActivityStore
}

var _ deck.SessionStore = (*SessionStore)(nil)

func (s *SessionStore) RegisterNew(ctx context.Context, roles deck.Roles, ip string, userAgent string) (deck.Session, error) {
	token, err := generateSessionToken()
	if err != nil {
		return deck.Session{}, fmt.Errorf("generate token: %s", err)
	}
	id := uuid.New().String()

	err = s.ActivityStore.AddEntry(ctx, deck.Activity{Name: "admin_session_created", Data: map[string]interface{}{
		"ip":         ip,
		"userAgent":  userAgent,
		"session_id": id,
	}})
	if err != nil {
		return deck.Session{}, fmt.Errorf("add admin_session_created activity entry: %s", err)
	}

	session := Session{
		Id:             id,
		Token:          token,
		RolesNames:     roles.Ids(),
		Ip:             ip,
		UserAgent:      userAgent,
		LastAccessedAt: time.Now().UTC(),
		ExpiresAt:      time.Now().UTC().Add(sessionTTL),
	}
	serializedSession, err := json.Marshal(&session)
	if err != nil {
		return deck.Session{}, fmt.Errorf("session serialize: %s", err)
	}

	err = s.Buntdb.Update(func(tx *buntdb.Tx) error {
		expireOptions := &buntdb.SetOptions{Expires: true, TTL: sessionTTL}
		_, _, err := tx.Set("session:"+session.Token, string(serializedSession), expireOptions)
		if err != nil {
			return fmt.Errorf("set session: %w", err)
		}
		return nil
	})
	if err != nil {
		return deck.Session{}, fmt.Errorf("bunt update: %s", err)
	}
	return session.ToDomain(), nil
}

func (s *SessionStore) ByToken(token string) (deck.Session, error) {
	var session Session
	err := s.Buntdb.View(func(tx *buntdb.Tx) error {
		serializedSession, err := tx.Get("session:" + token)
		if err != nil {
			return fmt.Errorf("get serialized session: %w", err)
		}
		if err := json.Unmarshal([]byte(serializedSession), &session); err != nil {
			return fmt.Errorf("deserialize session: %s", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, buntdb.ErrNotFound) {
			return deck.Session{}, deck.ErrSessionNotFound
		} else {
			return deck.Session{}, fmt.Errorf("buntdb view: %s", err)
		}
	}
	return session.ToDomain(), err
}

func (s *SessionStore) AcquireAndRefresh(ctx context.Context, token string, ip string, userAgent string) (deck.Session, error) {
	var previousSession Session
	err := s.Buntdb.View(func(tx *buntdb.Tx) error {
		oldSerializedSession, err := tx.Get("session:" + token)
		if err != nil {
			return fmt.Errorf("get serialized session: %w", err)
		}
		err = json.Unmarshal([]byte(oldSerializedSession), &previousSession)
		if err != nil {
			return fmt.Errorf("deserialize session: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, buntdb.ErrNotFound) {
			return deck.Session{}, deck.ErrSessionNotFound
		} else {
			return deck.Session{}, fmt.Errorf("get session from buntdb: %s", err)
		}
	}

	session := previousSession
	session.Ip = ip
	session.UserAgent = userAgent
	session.LastAccessedAt = time.Now().UTC()
	session.ExpiresAt = time.Now().UTC().Add(sessionTTL)
	serializedSession, err := json.Marshal(session)
	if err != nil {
		return deck.Session{}, fmt.Errorf("serialize session: %s", err)
	}

	err = s.Buntdb.Update(func(tx *buntdb.Tx) error {
		_, _, err = tx.Set("session:"+token, string(serializedSession), &buntdb.SetOptions{Expires: true, TTL: sessionTTL})
		if err != nil {
			return fmt.Errorf("store session: %w", err)
		}
		return nil
	})
	if err != nil {
		return deck.Session{}, fmt.Errorf("refresh session in buntdb: %s", err)
	}

	// the activity store may share this buntdb handle and open its own
	// write transaction, so the audit entry goes in after the refresh
	// commits. best effort, like the directory mutation audit.
	if previousSession.Ip != session.Ip {
		activity := deck.Activity{Name: "admin_session_changed_ip", Data: map[string]interface{}{
			"session_id":  session.Id,
			"previous_ip": previousSession.Ip,
			"new_ip":      session.Ip,
		}}
		if err := s.ActivityStore.AddEntry(ctx, activity); err != nil {
			logrus.WithError(err).Warningln("Could not log session ip change.")
		}
	}
	return session.ToDomain(), nil
}

func (s *SessionStore) InvalidateByAuthToken(authToken string) error {
	err := s.Buntdb.Update(func(tx *buntdb.Tx) error {
		_, err := tx.Delete("session:" + authToken)
		if err != nil {
			return fmt.Errorf("delete session key: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, buntdb.ErrNotFound) {
			return deck.ErrSessionNotFound
		}
		return fmt.Errorf("bunt update: %s", err)
	}
	return nil
}

func generateSessionToken() (string, error) {
	const tokenBytes = 60
	rawToken := make([]byte, tokenBytes)
	// crypto/rand - getentropy(2)
	bytesRead, err := crand.Read(rawToken)
	if err != nil {
		return "", fmt.Errorf("rand read: %w", err)
	}
	if bytesRead != tokenBytes {
		return "", fmt.Errorf("bytes read %d / required %d", bytesRead, tokenBytes)
	}
	dirtyToken := base64.StdEncoding.EncodeToString(rawToken)

	// ":" is the key separator in our buntdb layout, keeping it out of
	// tokens keeps key lookups injection safe
	token := strings.Replace(dirtyToken, ":", "_", -1)
	return token, nil
}
