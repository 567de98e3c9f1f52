package records

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	pkgerrors "github.com/angelmondragon/marketdesk/pkg/errors"
	"github.com/angelmondragon/marketdesk/pkg/recordstore"
)

type fakeStore struct {
	mu      sync.Mutex
	records map[string][]recordstore.Record
	listErr map[string]error
	writes  []map[string]any
	nextID  int
}

func newFakeStore() *fakeStore {
	return &fakeStore{records: map[string][]recordstore.Record{}, listErr: map[string]error{}}
}

func (f *fakeStore) seed(appID, id, fields string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records[appID] = append(f.records[appID], recordstore.Record{ID: id, CreatedAt: "2024-01-01", Fields: json.RawMessage(fields)})
}

func (f *fakeStore) List(_ context.Context, appID string) ([]recordstore.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.listErr[appID]; err != nil {
		return nil, err
	}
	out := make([]recordstore.Record, len(f.records[appID]))
	copy(out, f.records[appID])
	return out, nil
}

func (f *fakeStore) Get(_ context.Context, appID, recordID string) (*recordstore.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, rec := range f.records[appID] {
		if rec.ID == recordID {
			r := rec
			return &r, nil
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "record not found")
}

func (f *fakeStore) Create(_ context.Context, appID string, fields any) (*recordstore.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	raw, err := json.Marshal(fields)
	if err != nil {
		return nil, err
	}
	f.nextID++
	f.writes = append(f.writes, fields.(map[string]any))
	rec := recordstore.Record{ID: fmt.Sprintf("%024x", f.nextID), Fields: raw}
	f.records[appID] = append(f.records[appID], rec)
	return &rec, nil
}

func (f *fakeStore) Update(_ context.Context, appID, recordID string, fields any) (*recordstore.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes = append(f.writes, fields.(map[string]any))
	for i, rec := range f.records[appID] {
		if rec.ID != recordID {
			continue
		}
		var merged map[string]any
		_ = json.Unmarshal(rec.Fields, &merged)
		if merged == nil {
			merged = map[string]any{}
		}
		for k, v := range fields.(map[string]any) {
			merged[k] = v
		}
		raw, _ := json.Marshal(merged)
		f.records[appID][i].Fields = raw
		updated := f.records[appID][i]
		return &updated, nil
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "record not found")
}

func (f *fakeStore) Delete(_ context.Context, appID, recordID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	list := f.records[appID]
	for i, rec := range list {
		if rec.ID == recordID {
			f.records[appID] = append(list[:i], list[i+1:]...)
			return nil
		}
	}
	return pkgerrors.New(pkgerrors.CodeNotFound, "record not found")
}
