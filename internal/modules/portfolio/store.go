package portfolio

import "context"

// Store persists the ordered holdings sequence. Load returns the full
// sequence (empty when nothing was ever saved); Save replaces it in full.
// Two implementations exist, a local SQLite file and a remote backend;
// configuration selects which one the engine is wired to.
type Store interface {
	Load(ctx context.Context) ([]Holding, error)
	Save(ctx context.Context, holdings []Holding) error
}
