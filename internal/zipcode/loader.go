package zipcode

import (
	"context"
	"fmt"
	"os"
	"sync"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

// Source supplies eligible postal codes to the registry at load time.
type Source interface {
	Name() string
	Codes(ctx context.Context) ([]string, error)
}

// Load fetches every source concurrently and merges the results into a Set.
// Any source failure fails the load; a partially loaded registry would
// silently reject eligible citizens.
func Load(ctx context.Context, sources ...Source) (*Set, error) {
	g, ctx := errgroup.WithContext(ctx)

	var mu sync.Mutex
	var all []string
	for _, src := range sources {
		g.Go(func() error {
			codes, err := src.Codes(ctx)
			if err != nil {
				return fmt.Errorf("load zipcodes from %s: %w", src.Name(), err)
			}
			mu.Lock()
			all = append(all, codes...)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return NewSet(all...), nil
}

// StaticSource serves codes given in configuration.
type StaticSource []string

func (s StaticSource) Name() string { return "config" }

func (s StaticSource) Codes(context.Context) ([]string, error) {
	return []string(s), nil
}

// SeedFile is the YAML layout of a zipcode seed file:
//
//	zipcodes:
//	  - 9713BH
//	  - 9711AA
type SeedFile struct {
	Zipcodes []string `yaml:"zipcodes"`
}

// FileSource reads a YAML seed file.
type FileSource struct {
	Path string
}

func (s FileSource) Name() string { return "file " + s.Path }

func (s FileSource) Codes(context.Context) ([]string, error) {
	raw, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return ParseSeed(raw)
}

// ParseSeed decodes a YAML seed document.
func ParseSeed(raw []byte) ([]string, error) {
	var seed SeedFile
	if err := yaml.Unmarshal(raw, &seed); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	return seed.Zipcodes, nil
}
