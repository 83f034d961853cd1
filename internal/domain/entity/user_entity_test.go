package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	lockoutThreshold = 5
	lockoutDuration  = 15 * time.Minute
)

func TestRecordFailedLoginLocksAtThreshold(t *testing.T) {
	now := time.Now()
	u := &User{FailedLoginAttempts: 0}

	for i := 1; i < lockoutThreshold; i++ {
		locked := u.RecordFailedLogin(now, lockoutThreshold, lockoutDuration)
		assert.False(t, locked, "attempt %d must not lock", i)
		assert.Equal(t, i, u.FailedLoginAttempts)
		assert.Nil(t, u.LockedUntil)
	}

	locked := u.RecordFailedLogin(now, lockoutThreshold, lockoutDuration)
	assert.True(t, locked)
	require.NotNil(t, u.LockedUntil)
	assert.WithinDuration(t, now.Add(lockoutDuration), *u.LockedUntil, time.Second)
	assert.True(t, u.IsLocked(now))
}

func TestIsLockedLapsesLazily(t *testing.T) {
	now := time.Now()
	until := now.Add(lockoutDuration)
	u := &User{FailedLoginAttempts: 5, LockedUntil: &until}

	assert.True(t, u.IsLocked(now))
	assert.True(t, u.IsLocked(until.Add(-time.Second)))
	// Boundary: lock holds only while LockedUntil is strictly in the future.
	assert.False(t, u.IsLocked(until))
	assert.False(t, u.IsLocked(until.Add(time.Second)))
	// Lapsing does not clear the field; that happens on the next success.
	assert.NotNil(t, u.LockedUntil)
}

func TestRecordLoginSuccessClearsBothFields(t *testing.T) {
	until := time.Now().Add(lockoutDuration)
	u := &User{FailedLoginAttempts: 3, LockedUntil: &until}

	u.RecordLoginSuccess()

	assert.Zero(t, u.FailedLoginAttempts)
	assert.Nil(t, u.LockedUntil)
	assert.False(t, u.HasLockoutState())
}

func TestUnlockFromEitherState(t *testing.T) {
	u := &User{FailedLoginAttempts: 2}
	u.Unlock()
	assert.False(t, u.HasLockoutState())

	until := time.Now().Add(time.Hour)
	u = &User{FailedLoginAttempts: 5, LockedUntil: &until}
	u.Unlock()
	assert.False(t, u.HasLockoutState())
	assert.False(t, u.IsLocked(time.Now()))
}

func TestUpdatePasswordHash(t *testing.T) {
	u := &User{PasswordHash: "old"}
	require.NoError(t, u.UpdatePasswordHash("pbkdf2$210000$c2FsdA==$ZGlnZXN0"))
	assert.Equal(t, "pbkdf2$210000$c2FsdA==$ZGlnZXN0", u.PasswordHash)

	assert.Error(t, u.UpdatePasswordHash(""))
	assert.Equal(t, "pbkdf2$210000$c2FsdA==$ZGlnZXN0", u.PasswordHash)
}

func TestAttributeUpdates(t *testing.T) {
	u := &User{Email: "a@local", Role: "User", IsActive: true}

	u.Deactivate()
	assert.False(t, u.IsActive)
	u.Activate()
	assert.True(t, u.IsActive)

	require.NoError(t, u.UpdateRole("Admin"))
	assert.Equal(t, "Admin", u.Role)
	assert.Error(t, u.UpdateRole(""))

	require.NoError(t, u.UpdateEmail("b@local"))
	assert.Equal(t, "b@local", u.Email)
	assert.Error(t, u.UpdateEmail(""))
}
