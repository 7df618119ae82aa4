// SPDX-License-Identifier: MPL-2.0

package inventory

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
)

// Resolver runs full resolution passes. It carries no state between passes;
// every Resolve call produces an independent snapshot.
type Resolver struct {
	logger *log.Logger
}

// NewResolver creates a Resolver. A nil logger disables logging.
func NewResolver(logger *log.Logger) *Resolver {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Resolver{logger: logger}
}

// Resolve parses all sources, builds the membership graph, and merges
// variable overlays into one Resolved snapshot. Sources parse concurrently,
// but combination is strictly in source-list order, so the result is
// deterministic regardless of completion order. Cancellation or any fatal
// error discards all partial state.
func (r *Resolver) Resolve(ctx context.Context, sources []Source) (*Resolved, error) {
	if len(sources) == 0 {
		return nil, errors.New("no inventory sources given")
	}

	slots := make([]*Declarations, len(sources))
	eg, _ := errgroup.WithContext(ctx)
	for i, src := range sources {
		eg.Go(func() error {
			decls, err := ParseSource(src)
			if err != nil {
				return err
			}
			slots[i] = decls
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("resolution aborted: %w", err)
	}

	for _, decls := range slots {
		for _, warning := range decls.Warnings {
			r.logger.Warn("skipping malformed inventory line", "detail", warning)
		}
		r.logger.Debug("parsed inventory source",
			"source", decls.Source, "groups", len(decls.Groups))
	}

	res, err := buildGraph(slots)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("resolution aborted: %w", err)
	}

	if err := newMerger(res, slots).apply(ctx); err != nil {
		return nil, err
	}

	r.logger.Debug("resolved inventory",
		"hosts", len(res.hostOrder), "groups", len(res.groupOrder))
	return res, nil
}
