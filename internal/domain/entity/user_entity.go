package entity

import (
	"errors"
	"time"
)

// User is the aggregate root for the authentication domain.
//
// PasswordHash holds either a current-format (pbkdf2-tagged) hash or a
// bare legacy digest; accounts move legacy -> current exactly once, on the
// first successful legacy login, never the other way.
//
// The lockout transitions below only compute the next field values; they
// perform no I/O. Persisting the result is the caller's job.
type User struct {
	ID                  string
	Username            string
	PasswordHash        string
	Email               string
	Role                string
	IsActive            bool
	FailedLoginAttempts int
	LockedUntil         *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// IsLocked reports whether the account is locked at the given instant.
// An elapsed LockedUntil counts as unlocked; the field is cleared lazily
// by the next successful login, not here.
func (u *User) IsLocked(now time.Time) bool {
	return u.LockedUntil != nil && u.LockedUntil.After(now)
}

// RecordFailedLogin increments the failure counter and, when it reaches
// threshold, locks the account until now + lockFor. Returns true when this
// call caused the transition to Locked.
func (u *User) RecordFailedLogin(now time.Time, threshold int, lockFor time.Duration) bool {
	u.FailedLoginAttempts++
	if u.FailedLoginAttempts >= threshold {
		until := now.Add(lockFor)
		u.LockedUntil = &until
		return true
	}
	return false
}

// RecordLoginSuccess resets the failure counter and clears any lock. The
// two fields always change together.
func (u *User) RecordLoginSuccess() {
	u.FailedLoginAttempts = 0
	u.LockedUntil = nil
}

// Unlock is the administrative reset; usable whether or not the lock has
// already lapsed.
func (u *User) Unlock() {
	u.FailedLoginAttempts = 0
	u.LockedUntil = nil
}

// HasLockoutState reports whether either lockout field is dirty, so
// callers can skip a write when a success changes nothing.
func (u *User) HasLockoutState() bool {
	return u.FailedLoginAttempts != 0 || u.LockedUntil != nil
}

// UpdatePasswordHash replaces the stored hash. Used by the one-way legacy
// migration after a successful legacy verification.
func (u *User) UpdatePasswordHash(newHash string) error {
	if newHash == "" {
		return errors.New("new password hash cannot be empty")
	}
	u.PasswordHash = newHash
	return nil
}

func (u *User) Deactivate() { u.IsActive = false }
func (u *User) Activate()   { u.IsActive = true }

func (u *User) UpdateRole(newRole string) error {
	if newRole == "" {
		return errors.New("new role cannot be empty")
	}
	u.Role = newRole
	return nil
}

func (u *User) UpdateEmail(newEmail string) error {
	if newEmail == "" {
		return errors.New("new email cannot be empty")
	}
	u.Email = newEmail
	return nil
}
