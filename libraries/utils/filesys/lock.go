// Copyright 2026 Dolthub, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package filesys

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/dolthub/fslock"
	"github.com/pkg/errors"
)

const unlockedStateValue int32 = 0
const lockedStateValue int32 = 1

// ErrLocked is returned when a lock is still held by someone else once the wait for it has timed out.
var ErrLocked = errors.New("another gitrebase process is running in this repository")

// errLockUnlock occurs if there is an error unlocking the lock
var errLockUnlock = errors.New("unable to unlock the lock")

// FilesysLock is an exclusive lock which is tried, never waited on.
type FilesysLock interface {
	TryLock() (bool, error)
	Unlock() error
}

// InMemFileLock is a lock for repositories which only exist in memory
type InMemFileLock struct {
	state int32
}

func NewInMemFileLock() *InMemFileLock {
	return &InMemFileLock{unlockedStateValue}
}

// TryLock attempts to lock the lock or fails if it is already locked
func (memLock *InMemFileLock) TryLock() (bool, error) {
	return atomic.CompareAndSwapInt32(&memLock.state, unlockedStateValue, lockedStateValue), nil
}

// Unlock unlocks the lock. Unlocking an unlocked lock is a no-op.
func (memLock *InMemFileLock) Unlock() error {
	if atomic.LoadInt32(&memLock.state) == unlockedStateValue {
		return nil
	}
	if !atomic.CompareAndSwapInt32(&memLock.state, lockedStateValue, unlockedStateValue) {
		return errLockUnlock
	}
	return nil
}

// LocalFileLock is an advisory lock on a file on local disk, shared with other processes.
type LocalFileLock struct {
	lck *fslock.Lock
}

func NewLocalFileLock(filename string) *LocalFileLock {
	return &LocalFileLock{lck: fslock.New(filename)}
}

// TryLock attempts to lock the lock, returning false if another holder has it
func (locLock *LocalFileLock) TryLock() (bool, error) {
	err := locLock.lck.TryLock()
	if errors.Is(err, fslock.ErrLocked) {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrap(err, "unable to lock")
	}
	return true, nil
}

func (locLock *LocalFileLock) Unlock() error {
	return locLock.lck.Unlock()
}

// AcquireLock tries |lck| with exponential backoff until it is held, |timeout| elapses, or |ctx| is done. Returns
// ErrLocked on timeout.
func AcquireLock(ctx context.Context, lck FilesysLock, timeout time.Duration) error {
	params := backoff.NewExponentialBackOff()
	params.InitialInterval = 5 * time.Millisecond
	params.MaxInterval = 250 * time.Millisecond
	params.MaxElapsedTime = timeout

	return backoff.Retry(func() error {
		ok, err := lck.TryLock()
		if err != nil {
			return backoff.Permanent(err)
		}
		if !ok {
			return ErrLocked
		}
		return nil
	}, backoff.WithContext(params, ctx))
}
