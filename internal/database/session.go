package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"gorm.io/gorm"
)

// ErrScopeReleased is returned when a session is requested from a Scope that
// has already been released.
var ErrScopeReleased = errors.New("database scope already released")

// Opener hands out sessions. *SessionFactory is the production implementation.
type Opener interface {
	Open(ctx context.Context) (*Session, error)
}

// pinnedConn is a single pooled connection. *sql.Conn satisfies it.
type pinnedConn interface {
	gorm.ConnPool
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
	Close() error
}

// Session is a gorm handle pinned to one connection. Every statement and
// transaction issued through it runs on that connection until Close.
//
// Models loaded through a session are plain values, so they stay usable after
// a transaction commits.
type Session struct {
	*gorm.DB

	conn pinnedConn
	once sync.Once
	err  error
}

// Close returns the connection to the pool. Only the first call does any work;
// later calls report the first result.
func (s *Session) Close() error {
	s.once.Do(func() {
		s.err = s.conn.Close()
	})
	return s.err
}

// SessionFactory creates sessions bound to the shared engine.
type SessionFactory struct {
	engine  *gorm.DB
	acquire func(ctx context.Context) (pinnedConn, error)
}

func NewSessionFactory(engine *gorm.DB) (*SessionFactory, error) {
	sqlDB, err := engine.DB()
	if err != nil {
		return nil, fmt.Errorf("session factory: %w", err)
	}
	return newSessionFactory(engine, func(ctx context.Context) (pinnedConn, error) {
		conn, err := sqlDB.Conn(ctx)
		if err != nil {
			return nil, err
		}
		return conn, nil
	}), nil
}

func newSessionFactory(engine *gorm.DB, acquire func(ctx context.Context) (pinnedConn, error)) *SessionFactory {
	return &SessionFactory{engine: engine, acquire: acquire}
}

// Open acquires a connection and binds a new session to it. The caller owns
// the session and must Close it.
func (f *SessionFactory) Open(ctx context.Context) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("acquire session: %w", err)
	}
	conn, err := f.acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire session: %w", err)
	}

	db := f.engine.Session(&gorm.Session{NewDB: true, Context: ctx})
	db.Statement.ConnPool = conn

	return &Session{DB: db, conn: conn}, nil
}

// WithSession runs fn with a fresh session and closes it afterwards, whether fn
// returns normally, fails, or panics. Panics are re-raised after the close.
func (f *SessionFactory) WithSession(ctx context.Context, fn func(s *Session) error) (err error) {
	s, err := f.Open(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := s.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("close session: %w", cerr))
		}
	}()
	return fn(s)
}

// Scope holds at most one session for a unit of work, acquiring it on first
// use. Release closes whatever was acquired.
type Scope struct {
	ctx    context.Context
	opener Opener

	mu       sync.Mutex
	session  *Session
	released bool
}

func NewScope(ctx context.Context, opener Opener) *Scope {
	return &Scope{ctx: ctx, opener: opener}
}

// Session returns the scope's session, opening it on the first call.
func (s *Scope) Session() (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.released {
		return nil, ErrScopeReleased
	}
	if s.session != nil {
		return s.session, nil
	}
	sess, err := s.opener.Open(s.ctx)
	if err != nil {
		return nil, err
	}
	s.session = sess
	return sess, nil
}

// Acquired reports whether a session was opened in this scope.
func (s *Scope) Acquired() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session != nil
}

// Release closes the session if one was opened. It is safe to call more than
// once.
func (s *Scope) Release() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.released {
		return nil
	}
	s.released = true
	if s.session == nil {
		return nil
	}
	return s.session.Close()
}
