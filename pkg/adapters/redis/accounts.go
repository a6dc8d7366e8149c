package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/namecardai/namecard/pkg/domain"
	"github.com/namecardai/namecard/pkg/ports"
	backend "github.com/redis/go-redis/v9"
)

// DefaultPrefix namespaces every key the adapters write.
const DefaultPrefix = "namecard:"

// lockTTL bounds how long a crashed replica can hold an email lock.
const lockTTL = 10 * time.Second

// Account is the stored form of a registration. Credentials are never written.
type Account struct {
	FirstName           string    `json:"firstName"`
	LastName            string    `json:"lastName"`
	Email               string    `json:"email"`
	Company             string    `json:"company,omitempty"`
	Title               string    `json:"title,omitempty"`
	Industry            string    `json:"industry,omitempty"`
	Plan                string    `json:"plan"`
	SubscribeNewsletter bool      `json:"subscribeNewsletter"`
	CreatedAt           time.Time `json:"createdAt"`
}

// Accounts implements ports.AccountCreator using Redis.
// Each email owns one key written with SET NX, so duplicates are rejected
// atomically across replicas; a ZSET indexes accounts by creation time.
type Accounts struct {
	client *backend.Client
	prefix string
	locker ports.DistributedLocker
	now    func() time.Time
}

type Option func(*Accounts)

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(a *Accounts) {
		a.prefix = prefix
	}
}

// WithLocker serialises registrations of the same email through locker.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(a *Accounts) {
		a.locker = locker
	}
}

// New creates Redis accounts with a fresh client.
func New(address, password string, db int, opts ...Option) *Accounts {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates Redis accounts from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Accounts {
	a := &Accounts{
		client: client,
		prefix: DefaultPrefix,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Accounts) key(email string) string {
	return a.prefix + "account:" + email
}

func (a *Accounts) indexKey() string {
	return a.prefix + "accounts"
}

// CreateAccount stores reg unless its normalized email already exists.
func (a *Accounts) CreateAccount(ctx context.Context, reg domain.Registration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	email := domain.NormalizeEmail(reg.Email)

	if a.locker != nil {
		unlock, err := a.locker.Lock(ctx, "account:"+email, lockTTL)
		if err != nil {
			return err
		}
		defer func() { _ = unlock(context.WithoutCancel(ctx)) }()
	}

	created := a.now().UTC()
	data, err := json.Marshal(Account{
		FirstName:           reg.FirstName,
		LastName:            reg.LastName,
		Email:               email,
		Company:             reg.Company,
		Title:               reg.Title,
		Industry:            reg.Industry,
		Plan:                reg.Plan,
		SubscribeNewsletter: reg.SubscribeNewsletter,
		CreatedAt:           created,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal account: %w", err)
	}

	ok, err := a.client.SetNX(ctx, a.key(email), data, 0).Result()
	if err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	if !ok {
		return domain.ErrEmailTaken
	}

	err = a.client.ZAdd(ctx, a.indexKey(), backend.Z{
		Score:  float64(created.Unix()),
		Member: email,
	}).Err()
	if err != nil {
		return fmt.Errorf("failed to index account: %w", err)
	}
	return nil
}

// Lookup retrieves an account by email.
func (a *Accounts) Lookup(ctx context.Context, email string) (*Account, error) {
	val, err := a.client.Get(ctx, a.key(domain.NormalizeEmail(email))).Result()
	if err != nil {
		if err == backend.Nil {
			return nil, fmt.Errorf("account %s: not found", email)
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}

	var acc Account
	if err := json.Unmarshal([]byte(val), &acc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal account: %w", err)
	}
	return &acc, nil
}

// List returns account emails, oldest first.
func (a *Accounts) List(ctx context.Context) ([]string, error) {
	emails, err := a.client.ZRange(ctx, a.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return emails, nil
}

// Close closes the redis client.
func (a *Accounts) Close() error {
	return a.client.Close()
}
