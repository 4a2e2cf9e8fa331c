package main

import (
	"context"
	"flag"
	"os"
	"strconv"
	"time"

	"github.com/BeameryHQ/async-callbacks/kvstore"
	"github.com/BeameryHQ/async-callbacks/stream"
	"github.com/fatih/color"
	"go.etcd.io/etcd/clientv3"
)

var (
	path      = flag.String("p", "/callbacks/values", "path the values are published under")
	endpoint  = flag.String("e", "localhost:2379", "etcd endpoint")
	retention = flag.Int64("ttl", 3600, "seconds a published value is kept")
	verbose   = flag.Bool("v", false, "print every published key")
	clearPath = flag.Bool("clear", false, "delete the values already under the path first")
)

func main() {
	flag.Parse()

	values, err := parseArgs(flag.Args())
	if err != nil {
		color.Red("%v", err)
		os.Exit(2)
	}
	if len(values) == 0 && !*clearPath {
		color.Yellow("nothing to publish, usage : publish [-p path] [-clear] 61 10 0")
		os.Exit(2)
	}

	cli, err := clientv3.New(clientv3.Config{
		Endpoints:   []string{*endpoint},
		DialTimeout: 5 * time.Second,
	})
	if err != nil {
		color.Red("etcd client creation failed : %v", err)
		os.Exit(1)
	}
	defer cli.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	p := stream.NewPublisher(kvstore.NewEtcdKVStore(cli), *path, stream.WithRetention(*retention))
	if *clearPath {
		deleted, err := p.Clear(ctx)
		if err != nil {
			color.Red("clearing %s failed : %v", *path, err)
			cli.Close()
			os.Exit(1)
		}
		color.Yellow("cleared %d values under %s", deleted, *path)
	}
	if len(values) == 0 {
		return
	}

	keys, err := stream.PublishAll(ctx, p, values...)
	if *verbose {
		for i, k := range keys {
			color.White("%d -> %s", values[i], k)
		}
	}
	if err != nil {
		color.Red("published %d of %d values : %v", len(keys), len(values), err)
		cli.Close()
		os.Exit(1)
	}

	color.Green("published %d values under %s", len(keys), *path)
}

func parseArgs(args []string) ([]int, error) {
	values := make([]int, 0, len(args))
	for _, a := range args {
		v, err := strconv.Atoi(a)
		if err != nil {
			return nil, &stream.InputError{Token: a, Err: err}
		}
		values = append(values, v)
	}
	return values, nil
}
