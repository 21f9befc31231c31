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

// Package env loads everything a gitrebase command needs to run against a repository: the repository itself, the
// filesystem rebase state is kept on, the configuration, the logger and the process lock.
package env

import (
	"context"
	"path/filepath"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/storage/filesystem"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/dolthub/gitrebase/libraries/config"
	"github.com/dolthub/gitrebase/libraries/gitstore"
	"github.com/dolthub/gitrebase/libraries/rebase"
	"github.com/dolthub/gitrebase/libraries/utils/filesys"
)

// LockFileName is the name of the lock file created in the git dir while a command runs.
const LockFileName = "gitrebase.lock"

// RebaseEnv is the loaded environment of a single command.
type RebaseEnv struct {
	Repo *gitstore.Repo
	// FS is rooted at the git dir. Rebase state and the default config file live on it.
	FS     billy.Filesystem
	Config *config.YAMLConfig
	Logger *logrus.Entry

	lock filesys.FilesysLock
}

// Load opens the repository containing |dir|. If |configPath| is empty the config is read from the git dir.
func Load(dir, configPath string, lgr *logrus.Logger) (*RebaseEnv, error) {
	repo, err := gitstore.Open(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open git repository at '%s'", dir)
	}

	fs, lck := stateFS(repo)
	return NewRebaseEnv(repo, fs, lck, configPath, lgr)
}

// stateFS returns the git dir of an on disk repository and a file lock inside it. Repositories which are not stored
// on disk get an in memory filesystem and lock.
func stateFS(repo *gitstore.Repo) (billy.Filesystem, filesys.FilesysLock) {
	if st, ok := repo.Repository().Storer.(*filesystem.Storage); ok {
		fs := st.Filesystem()
		return fs, filesys.NewLocalFileLock(filepath.Join(fs.Root(), LockFileName))
	}
	return memfs.New(), filesys.NewInMemFileLock()
}

// NewRebaseEnv builds an environment from its parts. |lgr| is configured from the loaded config.
func NewRebaseEnv(repo *gitstore.Repo, fs billy.Filesystem, lck filesys.FilesysLock, configPath string, lgr *logrus.Logger) (*RebaseEnv, error) {
	cfg, err := loadConfig(fs, configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.ConfigureLogger(lgr); err != nil {
		return nil, errors.Wrap(err, "invalid logging configuration")
	}

	entry := logrus.NewEntry(lgr)
	return &RebaseEnv{
		Repo:   repo.WithLogger(entry),
		FS:     fs,
		Config: cfg,
		Logger: entry,
		lock:   lck,
	}, nil
}

func loadConfig(gitDir billy.Filesystem, path string) (*config.YAMLConfig, error) {
	if path == "" {
		cfg, err := config.YamlConfigFromFile(gitDir, config.FileName)
		return cfg, errors.Wrap(err, "failed to load config")
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid config path '%s'", path)
	}
	fs := osfs.New(filepath.Dir(abs))
	name := filepath.Base(abs)
	if _, err := fs.Stat(name); err != nil {
		return nil, errors.Wrapf(err, "failed to load config '%s'", path)
	}
	cfg, err := config.YamlConfigFromFile(fs, name)
	return cfg, errors.Wrap(err, "failed to load config")
}

// Lock takes the repository's gitrebase lock, waiting up to the configured lock timeout for another process to
// release it.
func (e *RebaseEnv) Lock(ctx context.Context) error {
	if err := filesys.AcquireLock(ctx, e.lock, e.Config.LockTimeout()); err != nil {
		return errors.Wrap(err, "failed to lock repository")
	}
	return nil
}

func (e *RebaseEnv) Unlock() error {
	return e.lock.Unlock()
}

// Committer returns the signature commits are created with, timestamped |now|.
func (e *RebaseEnv) Committer(now time.Time) (object.Signature, error) {
	name, email, err := e.Config.Identity(e.Repo)
	if err != nil {
		return object.Signature{}, err
	}
	return object.Signature{Name: name, Email: email, When: now}, nil
}

// RunOptions returns the driver options for the loaded config. Callers add their progress callbacks.
func (e *RebaseEnv) RunOptions() rebase.Options {
	return rebase.Options{
		Checkout: e.Config.CheckoutOptions(),
		Finish:   e.Config.FinishOptions(),
		Logger:   e.Logger,
	}
}
