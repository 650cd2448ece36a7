package openapi

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// Service serves a generated document with caching. The cache is keyed by a hash of the
// schema source, so an edited schema is picked up on the next request after the TTL.
type Service struct {
	source func() ([]byte, error)
	build  func(ctx context.Context) (*Spec, error)
	ttl    time.Duration
	logger zerolog.Logger

	cache atomic.Pointer[cachedSpec]
	mu    sync.Mutex
}

// cachedSpec holds a cached document with metadata.
type cachedSpec struct {
	spec        *Spec
	generatedAt time.Time
	sourceHash  string
}

// ServiceConfig contains configuration for the document service.
type ServiceConfig struct {
	// Source returns the schema bytes used for change detection.
	Source func() ([]byte, error)
	// Build generates a fresh document.
	Build func(ctx context.Context) (*Spec, error)
	// TTL bounds how long a document is served without rehashing the source.
	TTL    time.Duration
	Logger zerolog.Logger
}

// NewService creates a new document service.
func NewService(cfg ServiceConfig) *Service {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 2 * time.Second
	}
	return &Service{
		source: cfg.Source,
		build:  cfg.Build,
		ttl:    ttl,
		logger: cfg.Logger,
	}
}

// GetSpec returns the current document with baseURL as its first server.
func (s *Service) GetSpec(ctx context.Context, baseURL string) (*Spec, error) {
	if s.build == nil {
		return nil, errors.New("openapi: service has no builder")
	}

	cached := s.cache.Load()
	if cached != nil && time.Since(cached.generatedAt) < s.ttl {
		return s.cloneSpecWithServer(cached.spec, baseURL), nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cached = s.cache.Load()
	if cached != nil && time.Since(cached.generatedAt) < s.ttl {
		return s.cloneSpecWithServer(cached.spec, baseURL), nil
	}

	hash := s.sourceHash()
	if cached != nil && hash != "" && cached.sourceHash == hash {
		s.cache.Store(&cachedSpec{spec: cached.spec, generatedAt: time.Now(), sourceHash: hash})
		return s.cloneSpecWithServer(cached.spec, baseURL), nil
	}

	spec, err := s.build(ctx)
	if err != nil {
		if cached != nil {
			s.logger.Warn().Err(err).Msg("Schema rebuild failed, serving previous document")
			return s.cloneSpecWithServer(cached.spec, baseURL), nil
		}
		return nil, err
	}

	s.cache.Store(&cachedSpec{spec: spec, generatedAt: time.Now(), sourceHash: hash})
	s.logger.Debug().Str("hash", hash).Msg("OpenAPI document rebuilt")
	return s.cloneSpecWithServer(spec, baseURL), nil
}

// InvalidateCache forces the next GetSpec call to rebuild the document.
func (s *Service) InvalidateCache() {
	s.cache.Store(nil)
	s.logger.Debug().Msg("OpenAPI cache invalidated")
}

// sourceHash hashes the schema source; "" when it cannot be read.
func (s *Service) sourceHash() string {
	if s.source == nil {
		return ""
	}
	data, err := s.source()
	if err != nil {
		s.logger.Warn().Err(err).Msg("Failed to read schema source")
		return ""
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])[:16]
}

// cloneSpecWithServer creates a copy of the document with the given server URL.
func (s *Service) cloneSpecWithServer(spec *Spec, baseURL string) *Spec {
	data, err := json.Marshal(spec)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to clone OpenAPI document")
		return spec
	}

	var cloned Spec
	if err := json.Unmarshal(data, &cloned); err != nil {
		s.logger.Error().Err(err).Msg("Failed to unmarshal cloned OpenAPI document")
		return spec
	}

	if baseURL == "" {
		return &cloned
	}
	if len(cloned.Servers) > 0 {
		cloned.Servers[0].URL = baseURL
	} else {
		cloned.Servers = []Server{{URL: baseURL, Description: "Current server"}}
	}
	return &cloned
}
