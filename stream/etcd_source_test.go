// +build integration

package stream

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/BeameryHQ/async-callbacks/kvstore"
	"github.com/BeameryHQ/async-callbacks/tests"
	"github.com/go-test/deep"
)

func TestEtcdSource_Replay(t *testing.T) {
	server := os.Getenv("ETCD_SERVER")
	res := tests.NewEtcdResource(t, server)
	path := res.RegisterRandom()
	defer res.Cleanup()

	expected := []int{61, 10, 50, 51, 3, 0}
	res.PutValues(path, expected)

	src := NewEtcdSource(res.Cli, path, WithReplay(), WithPageSize(2))
	defer src.Close()

	var actual []int
	err := RunEventLoop(context.Background(), src, HandlerFunc(func(v int) {
		actual = append(actual, v)
	}))
	if err != nil {
		t.Fatalf("event loop failed : %v", err)
	}

	if diff := deep.Equal(expected, actual); diff != nil {
		t.Fatalf("replay mismatch : %v", diff)
	}
}

func TestEtcdSource_StartsOverAfterCancelledReplay(t *testing.T) {
	server := os.Getenv("ETCD_SERVER")
	res := tests.NewEtcdResource(t, server)
	path := res.RegisterRandom()
	defer res.Cleanup()

	res.PutValues(path, []int{61, 0})

	src := NewEtcdSource(res.Cli, path, WithReplay())
	defer src.Close()

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := src.Next(cancelled); err == nil {
		t.Fatalf("expected the cancelled context to fail the first read")
	}

	var actual []int
	err := RunEventLoop(context.Background(), src, HandlerFunc(func(v int) {
		actual = append(actual, v)
	}))
	if err != nil {
		t.Fatalf("event loop failed : %v", err)
	}

	if diff := deep.Equal([]int{61, 0}, actual); diff != nil {
		t.Fatalf("replay mismatch : %v", diff)
	}
}

func TestEtcdSource_SkipsMalformedValues(t *testing.T) {
	server := os.Getenv("ETCD_SERVER")
	res := tests.NewEtcdResource(t, server)
	path := res.RegisterRandom()
	defer res.Cleanup()

	res.PutRaw(path+"/a", "61")
	res.PutRaw(path+"/b", "sixty")
	res.PutRaw(path+"/c", "0")

	src := NewEtcdSource(res.Cli, path, WithReplay())
	defer src.Close()

	var actual []int
	err := RunEventLoop(context.Background(), src, HandlerFunc(func(v int) {
		actual = append(actual, v)
	}))
	if err != nil {
		t.Fatalf("event loop failed : %v", err)
	}

	if diff := deep.Equal([]int{61, 0}, actual); diff != nil {
		t.Fatalf("malformed value was not skipped : %v", diff)
	}
}

func TestEtcdSource_Watch(t *testing.T) {
	server := os.Getenv("ETCD_SERVER")
	res := tests.NewEtcdResource(t, server)
	path := res.RegisterRandom()
	defer res.Cleanup()

	// stored before the source starts, must not be seen without replay
	res.PutValues(path+"/old", []int{99})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*30)
	defer cancel()

	src := NewEtcdSource(res.Cli, path)
	defer src.Close()

	var actual []int
	started := make(chan bool)
	var wg sync.WaitGroup
	wg.Add(1)

	var loopErr error
	go func() {
		defer wg.Done()
		first := true
		loopErr = RunEventLoop(ctx, SourceFunc(func(ctx context.Context) (int, error) {
			if first {
				first = false
				close(started)
			}
			return src.Next(ctx)
		}), HandlerFunc(func(v int) {
			actual = append(actual, v)
		}))
	}()

	<-started
	// give the watch a moment to register
	time.Sleep(time.Millisecond * 500)

	p := NewPublisher(kvstore.NewEtcdKVStore(res.Cli), path, WithRetention(60))
	if _, err := PublishAll(ctx, p, 61, 10, 0); err != nil {
		t.Fatalf("publishing failed : %v", err)
	}

	wg.Wait()
	if loopErr != nil {
		t.Fatalf("event loop failed : %v", loopErr)
	}

	if diff := deep.Equal([]int{61, 10, 0}, actual); diff != nil {
		t.Fatalf("watch mismatch : %v", diff)
	}
}

func TestEtcdSource_Close(t *testing.T) {
	server := os.Getenv("ETCD_SERVER")
	res := tests.NewEtcdResource(t, server)
	path := res.RegisterRandom()
	defer res.Cleanup()

	src := NewEtcdSource(res.Cli, path)
	go func() {
		time.Sleep(time.Millisecond * 200)
		src.Close()
	}()

	_, err := src.Next(context.Background())
	if err != ErrSourceClosed {
		t.Fatalf("expected source closed got : %v", err)
	}
}
