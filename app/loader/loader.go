package loader

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"qastore/app/repositories"
	"qastore/config"

	"golang.org/x/sync/errgroup"
)

// Counts holds how many documents were loaded into each collection.
type Counts struct {
	Posts int
	Tags  int
	Votes int
}

type source struct {
	collection string
	entity     string
	path       string
}

// Load replaces the Posts, Tags and Votes collections with the rows of the
// configured JSON files. All three files must exist before anything in the
// store is touched. The collections are written concurrently.
func Load(ctx context.Context, store repositories.Store, files config.FilesConfig) (Counts, error) {
	sources := []source{
		{repositories.PostsCollection, "posts", files.Posts},
		{repositories.TagsCollection, "tags", files.Tags},
		{repositories.VotesCollection, "votes", files.Votes},
	}
	for _, src := range sources {
		if _, err := os.Stat(src.path); err != nil {
			return Counts{}, fmt.Errorf("no %q file exists: %w", src.path, err)
		}
	}

	counts := make([]int, len(sources))
	g, gCtx := errgroup.WithContext(ctx)
	for i, src := range sources {
		i, src := i, src
		g.Go(func() error {
			rows, err := readRows(src.path, src.entity)
			if err != nil {
				return err
			}
			if err := store.Replace(gCtx, src.collection, rows); err != nil {
				return fmt.Errorf("failed to load %s: %w", src.collection, err)
			}
			counts[i] = len(rows)
			log.Printf("Loaded %d documents into %s", len(rows), src.collection)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Counts{}, err
	}
	return Counts{Posts: counts[0], Tags: counts[1], Votes: counts[2]}, nil
}

// readRows decodes a file shaped {"<entity>": {"row": [...]}}. Numbers are
// kept as json.Number so integer fields stay integers in the store.
func readRows(path, entity string) ([]map[string]interface{}, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var file map[string]struct {
		Row []map[string]interface{} `json:"row"`
	}
	dec := json.NewDecoder(f)
	dec.UseNumber()
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	table, ok := file[entity]
	if !ok {
		return nil, fmt.Errorf("%s has no %q table", path, entity)
	}
	return table.Row, nil
}
