package service

import (
	"errors"
	"posta/internal/auth"
	"posta/internal/cache"
	"posta/internal/model"
	"posta/internal/storage"
	"time"
)

// Options 构建服务层所需的依赖。
type Options struct {
	Repo              model.Repository
	Storage           storage.Storage
	UsageCache        cache.UsageCache
	Tokens            *auth.Manager
	PresignTTL        time.Duration
	AllowRegistration bool

	// Now 默认为 time.Now，测试中可注入固定时钟。
	Now func() time.Time
}

// Services 汇总所有领域服务。
type Services struct {
	Auth         *AuthService
	Projects     *ProjectService
	Scripts      *ScriptService
	Notes        *NoteService
	Inspirations *InspirationService
	Tags         *TagService
	Files        *FileService
	Account      *AccountService
}

// New wires the domain services around one repository.
func New(opts Options) (*Services, error) {
	if opts.Repo == nil {
		return nil, errors.New("repository is required")
	}
	if opts.Tokens == nil {
		return nil, errors.New("token manager is required")
	}
	if opts.UsageCache == nil {
		opts.UsageCache = cache.Noop{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.PresignTTL <= 0 {
		opts.PresignTTL = defaultPresignTTL
	}

	shared := &base{
		repo:  opts.Repo,
		usage: opts.UsageCache,
		now:   opts.Now,
	}
	inspirations := &InspirationService{base: shared}
	return &Services{
		Auth:         &AuthService{base: shared, tokens: opts.Tokens, allowRegistration: opts.AllowRegistration},
		Projects:     &ProjectService{base: shared},
		Scripts:      &ScriptService{base: shared},
		Notes:        &NoteService{base: shared},
		Inspirations: inspirations,
		Tags:         &TagService{base: shared},
		Files:        &FileService{base: shared, store: opts.Storage, ttl: opts.PresignTTL, inspirations: inspirations},
		Account:      &AccountService{base: shared},
	}, nil
}
