package tests

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/satori/go.uuid"
	"go.etcd.io/etcd/clientv3"
)

const (
	testPrefix = "/test/"
)

// EtcdResource hands out random paths on a live etcd and removes them on Cleanup.
type EtcdResource struct {
	Cli       *clientv3.Client
	resources map[string]bool
	mu        *sync.Mutex
	t         *testing.T
}

func NewEtcdResource(t *testing.T, server string) *EtcdResource {
	if server == "" {
		server = "localhost:2379"
	}

	cli, err := clientv3.New(clientv3.Config{
		Endpoints:   []string{server},
		DialTimeout: 5 * time.Second,
	})
	if err != nil {
		t.Fatalf("creating client %v", err)
	}

	return &EtcdResource{
		Cli:       cli,
		resources: map[string]bool{},
		mu:        &sync.Mutex{},
		t:         t,
	}
}

func (r *EtcdResource) RegisterPath(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.resources[path] = true
}

func (r *EtcdResource) RegisterRandom() string {
	path := testPrefix + uuid.NewV4().String()
	r.RegisterPath(path)
	return path
}

// PutValues writes each integer under its own key, in order, and returns the keys.
func (r *EtcdResource) PutValues(path string, values []int) []string {
	ctx := context.Background()
	var keys []string

	for i, v := range values {
		subPath := path + "/" + strconv.Itoa(i)
		if _, err := r.Cli.Put(ctx, subPath, strconv.Itoa(v)); err != nil {
			r.t.Fatalf("put failed : %v ", err)
		}
		keys = append(keys, subPath)
	}

	return keys
}

// PutRaw writes an arbitrary value, used to feed malformed input.
func (r *EtcdResource) PutRaw(key, value string) {
	if _, err := r.Cli.Put(context.Background(), key, value); err != nil {
		r.t.Fatalf("put failed : %v ", err)
	}
}

func (r *EtcdResource) Cleanup() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for path := range r.resources {
		_, err := r.Cli.Delete(context.Background(), path, clientv3.WithPrefix())
		if err != nil {
			r.t.Errorf("deleting path failed : %v", err)
		}
	}

	r.Cli.Close()
}
