package kvstore

import (
	"context"

	"go.etcd.io/etcd/clientv3"
)

// values published for the event loop are not meant to outlive a demo session
const defaultRetentionPeriod = 60 * 60

type etcdStore struct {
	cli *clientv3.Client
}

func NewEtcdKVStore(cli *clientv3.Client) Store {
	return &etcdStore{
		cli: cli,
	}
}

func (s *etcdStore) Get(ctx context.Context, key string) (*KeyValue, error) {
	resp, err := s.cli.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	if len(resp.Kvs) == 0 {
		return nil, ErrNotFound
	}

	kv := resp.Kvs[0]
	return &KeyValue{
		Key:            key,
		CreateRevision: kv.CreateRevision,
		ModRevision:    kv.ModRevision,
		Version:        kv.Version,
		Value:          string(kv.Value),
	}, nil
}

func (s *etcdStore) Create(ctx context.Context, key, value string, opts ...CreateOption) error {
	cc := newCreateConfig(opts...)

	var putOpts []clientv3.OpOption
	if !cc.disableLease {
		if cc.ttl == 0 {
			cc.ttl = defaultRetentionPeriod
		}
		leaseResp, err := s.cli.Grant(ctx, cc.ttl)
		if err != nil {
			return err
		}
		putOpts = append(putOpts, clientv3.WithLease(leaseResp.ID))
	}

	// a zero create revision means the key doesn't exist
	txnResp, err := s.cli.Txn(ctx).If(
		clientv3.Compare(clientv3.CreateRevision(key), "=", 0),
	).Then(
		clientv3.OpPut(key, value, putOpts...),
	).Commit()
	if err != nil {
		return err
	}

	if !txnResp.Succeeded {
		return ErrKeyExists
	}
	return nil
}

func (s *etcdStore) DeletePrefix(ctx context.Context, prefix string) (int64, error) {
	resp, err := s.cli.Delete(ctx, prefix, clientv3.WithPrefix())
	if err != nil {
		return 0, err
	}
	return resp.Deleted, nil
}
