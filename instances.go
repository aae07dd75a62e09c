package govern

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/common-fate/govern/pkg/approval"
	"github.com/common-fate/govern/pkg/entity"
	"github.com/common-fate/govern/pkg/store"
	"github.com/goccy/go-json"
	"github.com/pkg/errors"
)

const instancePrefix = "instance/"

// Instances persists workflow instances in a key/value store,
// so that instances waiting on an approval survive restarts.
type Instances struct {
	KV store.KV
}

func (i Instances) Save(ctx context.Context, inst *Instance) error {
	b, err := json.Marshal(inst)
	if err != nil {
		return err
	}
	return i.KV.Put(ctx, instancePrefix+inst.ID, b)
}

func (i Instances) Get(ctx context.Context, id string) (*Instance, error) {
	b, err := i.KV.Get(ctx, instancePrefix+id)
	if err != nil {
		return nil, errors.Wrapf(err, "loading instance %s", id)
	}
	var inst Instance
	err = json.Unmarshal(b, &inst)
	if err != nil {
		return nil, errors.Wrapf(err, "decoding instance %s", id)
	}
	inst.initMaps()
	return &inst, nil
}

// List instances, optionally filtered by status.
// Instances are returned in the order they were created.
func (i Instances) List(ctx context.Context, status ...Status) ([]*Instance, error) {
	items, err := i.KV.List(ctx, instancePrefix)
	if err != nil {
		return nil, err
	}

	var res []*Instance
	for key, b := range items {
		var inst Instance
		err = json.Unmarshal(b, &inst)
		if err != nil {
			return nil, errors.Wrapf(err, "decoding instance %s", strings.TrimPrefix(key, instancePrefix))
		}
		if len(status) > 0 && !hasStatus(inst.Status, status) {
			continue
		}
		inst.initMaps()
		res = append(res, &inst)
	}

	sort.Slice(res, func(a, b int) bool {
		if res[a].CreatedAt.Equal(res[b].CreatedAt) {
			return res[a].ID < res[b].ID
		}
		return res[a].CreatedAt.Before(res[b].CreatedAt)
	})
	return res, nil
}

func hasStatus(s Status, statuses []Status) bool {
	for _, want := range statuses {
		if s == want {
			return true
		}
	}
	return false
}

// Runner executes a compiled workflow and persists its instances.
type Runner struct {
	Graph     *Graph
	Instances Instances

	// mu serialises signals, which load, modify and
	// save an instance.
	mu sync.Mutex
}

// Start a workflow instance for an entity and save it.
// Failed instances are saved too.
func (r *Runner) Start(ctx context.Context, e *entity.Entity) (*Instance, error) {
	inst, err := r.Graph.Start(ctx, e)
	if inst == nil {
		return nil, err
	}
	serr := r.Instances.Save(ctx, inst)
	if err != nil {
		return inst, err
	}
	return inst, serr
}

// Signal a decision on an approval which a saved instance is waiting on.
func (r *Runner) Signal(ctx context.Context, id string, nodeName string, d approval.Decision) (*Instance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	inst, err := r.Instances.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	err = r.Graph.Signal(ctx, inst, nodeName, d)
	if err != nil && inst.Status != StatusFailed {
		// the decision was refused and the instance is unchanged.
		return inst, err
	}

	serr := r.Instances.Save(ctx, inst)
	if err != nil {
		return inst, err
	}
	return inst, serr
}
