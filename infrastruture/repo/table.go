package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/beka-birhanu/vinom-qmaze/maze"
	"github.com/beka-birhanu/vinom-qmaze/qtable"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	// DefaultCollection holds one document per maze.
	DefaultCollection = "qtables"

	saveTimeout = 5 * time.Second
	loadTimeout = 2 * time.Second
)

// tableDocument is the stored form of a value table. States are kept as an
// ordered array so the stored order follows the table's state order.
type tableDocument struct {
	Maze      string          `bson:"_id"`
	States    []stateDocument `bson:"states"`
	UpdatedAt time.Time       `bson:"updatedAt"`
}

type stateDocument struct {
	Key    string    `bson:"key"`
	Values []float64 `bson:"values"`
}

// storedDocument is read back with nullable values so a null in the
// collection is reported instead of becoming zero.
type storedDocument struct {
	Maze   string `bson:"_id"`
	States []struct {
		Key    string     `bson:"key"`
		Values []*float64 `bson:"values"`
	} `bson:"states"`
}

// TableRepo handles the persistence of the value table of one maze.
type TableRepo struct {
	collection *mongo.Collection
	maze       string
}

// NewTableRepo creates a new TableRepo with the given MongoDB client, database name, collection name and maze.
func NewTableRepo(client *mongo.Client, dbName, collectionName, mazeName string) *TableRepo {
	collection := client.Database(dbName).Collection(collectionName)
	return &TableRepo{
		collection: collection,
		maze:       mazeName,
	}
}

// Save inserts or replaces the table of the repo's maze.
func (r *TableRepo) Save(ctx context.Context, t *qtable.Table) error {
	ctx, cancel := context.WithTimeout(ctx, saveTimeout)
	defer cancel()

	doc := toDocument(r.maze, t)
	filter := bson.M{"_id": doc.Maze}
	update := bson.M{
		"$set": bson.M{
			"states":    doc.States,
			"updatedAt": time.Now(),
		},
	}

	opts := options.Update().SetUpsert(true)
	if _, err := r.collection.UpdateOne(ctx, filter, update, opts); err != nil {
		return errors.New("unexpected error: " + err.Error())
	}
	return nil
}

// Load retrieves the table of the repo's maze. A missing document, or one
// without states, is not found.
func (r *TableRepo) Load(ctx context.Context) (*qtable.Table, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, loadTimeout)
	defer cancel()

	raw, err := r.collection.FindOne(ctx, bson.M{"_id": r.maze}).Raw()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("find value table %s: %w", r.maze, err)
	}
	return decodeDocument(raw)
}

// decodeDocument turns a stored document into a table. A document that does
// not have the stored shape is ErrCorruptState.
func decodeDocument(raw bson.Raw) (*qtable.Table, bool, error) {
	var doc storedDocument
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, false, fmt.Errorf("%w: %v", qtable.ErrCorruptState, err)
	}
	if len(doc.States) == 0 {
		return nil, false, nil
	}

	t, err := fromDocument(doc)
	if err != nil {
		return nil, false, err
	}
	return t, true, nil
}

func toDocument(mazeName string, t *qtable.Table) tableDocument {
	states := t.States()
	doc := tableDocument{Maze: mazeName, States: make([]stateDocument, 0, len(states))}
	for _, s := range states {
		v, _ := t.Get(s)
		doc.States = append(doc.States, stateDocument{Key: s.String(), Values: v[:]})
	}
	return doc
}

func fromDocument(doc storedDocument) (*qtable.Table, error) {
	t := qtable.New(nil)
	for _, sd := range doc.States {
		s, err := maze.ParseState(sd.Key)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", qtable.ErrCorruptState, doc.Maze, err)
		}
		if len(sd.Values) != maze.NumActions {
			return nil, fmt.Errorf("%w: %s: state %q has %d values, want %d", qtable.ErrCorruptState, doc.Maze, sd.Key, len(sd.Values), maze.NumActions)
		}
		if !t.Register(s) {
			return nil, fmt.Errorf("%w: %s: state %q listed twice", qtable.ErrCorruptState, doc.Maze, sd.Key)
		}
		for _, a := range maze.Actions {
			if sd.Values[a] == nil {
				return nil, fmt.Errorf("%w: %s: state %q has a null value", qtable.ErrCorruptState, doc.Maze, sd.Key)
			}
			if err := t.SetValueOf(s, a, *sd.Values[a]); err != nil {
				return nil, err
			}
		}
	}
	return t, nil
}
