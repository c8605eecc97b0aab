// Package session holds the per-device identity and preferences: guest or logged-in customer,
// currency and language, and the ids of the cart and favorites draft orders.
package session

import (
	"context"
	"strconv"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"shopfront/internal/kvstore"
)

// State is a point-in-time copy of a session.
type State struct {
	LoggedIn               bool   `json:"isLoggedIn"`
	GuestWithPreservedData bool   `json:"isGuestWithPreservedData"`
	CustomerID             int64  `json:"customerId"`
	Name                   string `json:"name"`
	Email                  string `json:"email"`
	Phone                  string `json:"phone"`
	Currency               string `json:"currency"`
	Language               string `json:"language"`
	LanguageCode           string `json:"languageCode"`
	FavListID              int64  `json:"favListId"`
	CartListID             int64  `json:"cartListId"`
	OnboardingSeen         bool   `json:"onboardingSeen"`
	LoginSkipped           bool   `json:"loginSkipped"`
}

// Identity is what a successful login contributes to the session.
type Identity struct {
	CustomerID int64
	Name       string
	Email      string
	Phone      string
	// CartListID and FavListID are the lists remembered on the customer record; zero keeps the
	// lists the device already has.
	CartListID int64
	FavListID  int64
}

// Preferences are the display settings of a device. Empty fields are left unchanged.
type Preferences struct {
	Currency     string `json:"currency"`
	Language     string `json:"language"`
	LanguageCode string `json:"languageCode"`
}

// Flags are client bookkeeping switches. Nil fields are left unchanged.
type Flags struct {
	OnboardingSeen *bool `json:"onboardingSeen"`
	LoginSkipped   *bool `json:"loginSkipped"`
}

// Session is the state of one device. Every setter writes through to the store before updating
// the in-memory copy, so a failed write leaves the session as it was.
type Session struct {
	deviceID string
	store    kvstore.Store
	logger   *zap.Logger

	mu    sync.RWMutex
	state State
}

// Load reads the session of deviceID from store.
func Load(ctx context.Context, store kvstore.Store, deviceID string, logger *zap.Logger) (*Session, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	values, err := store.Load(ctx, deviceID)
	if err != nil {
		return nil, errors.Wrap(err, "load session")
	}
	s := &Session{deviceID: deviceID, store: store, logger: logger}
	s.state = stateFrom(values)
	return s, nil
}

func stateFrom(v map[string]string) State {
	st := State{
		LoggedIn:               parseBool(v[keyLoggedIn]),
		GuestWithPreservedData: parseBool(v[keyGuestPreserved]),
		OnboardingSeen:         parseBool(v[keyOnboardingSeen]),
		LoginSkipped:           parseBool(v[keyLoginSkipped]),
	}
	switch {
	case st.LoggedIn:
		st.CustomerID = parseInt(v[keyCustomerID])
		st.Name = v[keyName]
		st.Email = v[keyEmail]
		st.Phone = v[keyPhone]
		st.CartListID = parseInt(v[keyCartListID])
		st.FavListID = parseInt(v[keyFavListID])
		st.Currency = v[keyCurrency]
		st.Language = v[keyLanguage]
		st.LanguageCode = v[keyLanguageCode]
	case st.GuestWithPreservedData:
		st.CartListID = parseInt(v[keyGuestCartListID])
		st.FavListID = parseInt(v[keyGuestFavListID])
		st.Currency = v[keyGuestCurrency]
		st.Language = v[keyGuestLanguage]
		st.LanguageCode = v[keyGuestLanguageCode]
	}
	if st.Currency == "" {
		st.Currency = DefaultCurrency
	}
	if st.Language == "" {
		st.Language = DefaultLanguage
	}
	if st.LanguageCode == "" {
		st.LanguageCode = DefaultLanguageCode
	}
	return st
}

// DeviceID is the namespace the session is stored under.
func (s *Session) DeviceID() string {
	return s.deviceID
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// SetCartListID remembers the cart draft order of the device.
func (s *Session) SetCartListID(ctx context.Context, id int64) error {
	return s.update(ctx, func(st *State, w *write) {
		st.CartListID = id
		w.scoped(st, keyCartListID, keyGuestCartListID, formatInt(id))
	})
}

// SetFavListID remembers the favorites draft order of the device.
func (s *Session) SetFavListID(ctx context.Context, id int64) error {
	return s.update(ctx, func(st *State, w *write) {
		st.FavListID = id
		w.scoped(st, keyFavListID, keyGuestFavListID, formatInt(id))
	})
}

// SetPreferences changes currency and language.
func (s *Session) SetPreferences(ctx context.Context, p Preferences) error {
	return s.update(ctx, func(st *State, w *write) {
		if p.Currency != "" {
			st.Currency = p.Currency
			w.scoped(st, keyCurrency, keyGuestCurrency, p.Currency)
		}
		if p.Language != "" {
			st.Language = p.Language
			w.scoped(st, keyLanguage, keyGuestLanguage, p.Language)
		}
		if p.LanguageCode != "" {
			st.LanguageCode = p.LanguageCode
			w.scoped(st, keyLanguageCode, keyGuestLanguageCode, p.LanguageCode)
		}
	})
}

// SetFlags updates the onboarding and login-skipped switches.
func (s *Session) SetFlags(ctx context.Context, f Flags) error {
	return s.update(ctx, func(st *State, w *write) {
		if f.OnboardingSeen != nil {
			st.OnboardingSeen = *f.OnboardingSeen
			w.set[keyOnboardingSeen] = strconv.FormatBool(*f.OnboardingSeen)
		}
		if f.LoginSkipped != nil {
			st.LoginSkipped = *f.LoginSkipped
			w.set[keyLoginSkipped] = strconv.FormatBool(*f.LoginSkipped)
		}
	})
}

// LogIn switches the device to the customer in one write.
func (s *Session) LogIn(ctx context.Context, id Identity) error {
	return s.update(ctx, func(st *State, w *write) {
		st.LoggedIn = true
		st.CustomerID = id.CustomerID
		st.Name = id.Name
		st.Email = id.Email
		st.Phone = id.Phone
		if id.CartListID > 0 {
			st.CartListID = id.CartListID
		}
		if id.FavListID > 0 {
			st.FavListID = id.FavListID
		}
		w.set[keyLoggedIn] = "true"
		w.set[keyCustomerID] = formatInt(st.CustomerID)
		w.set[keyName] = st.Name
		w.set[keyEmail] = st.Email
		w.set[keyPhone] = st.Phone
		w.set[keyCartListID] = formatInt(st.CartListID)
		w.set[keyFavListID] = formatInt(st.FavListID)
		w.set[keyCurrency] = st.Currency
		w.set[keyLanguage] = st.Language
		w.set[keyLanguageCode] = st.LanguageCode
	})
}

// LogOut returns the device to guest mode in one write. When the customer had a cart or
// favorites list, both ids and the display settings are kept for the guest.
func (s *Session) LogOut(ctx context.Context) error {
	return s.update(ctx, func(st *State, w *write) {
		preserve := st.CartListID > 0 || st.FavListID > 0
		if preserve {
			w.set[keyGuestCartListID] = formatInt(st.CartListID)
			w.set[keyGuestFavListID] = formatInt(st.FavListID)
			w.set[keyGuestCurrency] = st.Currency
			w.set[keyGuestLanguage] = st.Language
			w.set[keyGuestLanguageCode] = st.LanguageCode
		} else {
			w.del = append(w.del, guestKeys...)
		}
		w.set[keyGuestPreserved] = strconv.FormatBool(preserve)
		w.set[keyLoggedIn] = "false"
		w.set[keyCartListID] = "0"
		w.set[keyFavListID] = "0"
		w.del = append(w.del, identityKeys...)

		next := State{
			GuestWithPreservedData: preserve,
			OnboardingSeen:         st.OnboardingSeen,
			LoginSkipped:           st.LoginSkipped,
			Currency:               DefaultCurrency,
			Language:               DefaultLanguage,
			LanguageCode:           DefaultLanguageCode,
		}
		if preserve {
			next.CartListID = st.CartListID
			next.FavListID = st.FavListID
			next.Currency = st.Currency
			next.Language = st.Language
			next.LanguageCode = st.LanguageCode
		}
		*st = next
	})
}

type write struct {
	set map[string]string
	del []string
}

// scoped writes key while logged in and guestKey otherwise. Guest writes mark the guest data as
// worth preserving.
func (w *write) scoped(st *State, key, guestKey, value string) {
	if st.LoggedIn {
		w.set[key] = value
		return
	}
	w.set[guestKey] = value
	w.set[keyGuestPreserved] = "true"
	st.GuestWithPreservedData = true
}

func (s *Session) update(ctx context.Context, fn func(*State, *write)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state
	w := &write{set: make(map[string]string)}
	fn(&next, w)
	if len(w.set) == 0 && len(w.del) == 0 {
		return nil
	}
	if err := s.store.Apply(ctx, s.deviceID, w.set, w.del); err != nil {
		s.logger.Warn("persist session", zap.String("device_id", s.deviceID), zap.Error(err))
		return errors.Wrap(err, "persist session")
	}
	s.state = next
	return nil
}

func parseBool(v string) bool {
	b, _ := strconv.ParseBool(v)
	return b
}

func parseInt(v string) int64 {
	n, _ := strconv.ParseInt(v, 10, 64)
	return n
}

func formatInt(n int64) string {
	return strconv.FormatInt(n, 10)
}
