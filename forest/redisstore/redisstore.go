/*
Package redisstore provides an implementation of forest.Store
that uses a redis DB as backend.
*/
package redisstore

import (
	"bytes"
	"context"
	"fmt"

	"github.com/pbanos/canopy/forest"
	"github.com/pkg/errors"
	"gopkg.in/redis.v5"
)

type redisStore struct {
	rc     *redis.Client
	prefix string
}

// New builds a forest.Store backed by a redis DB. Forests are
// stored as JSON under keys made of the given prefix and their name.
func New(rc *redis.Client, prefix string) forest.Store {
	return &redisStore{rc, prefix}
}

func (rs *redisStore) Put(ctx context.Context, name string, f *forest.Forest) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	key := rs.keyFor(name)
	data, err := f.MarshalJSON()
	if err != nil {
		return errors.Wrapf(err, "storing forest %q: encoding forest", key)
	}
	_, err = rs.rc.Set(key, data, 0).Result()
	if err != nil {
		return errors.Wrapf(err, "storing forest %q in redis", key)
	}
	return nil
}

func (rs *redisStore) Get(ctx context.Context, name string, opts ...forest.Option) (*forest.Forest, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	key := rs.keyFor(name)
	data, err := rs.rc.Get(key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "retrieving forest %q", key)
	}
	f, err := forest.ReadJSON(bytes.NewReader(data), opts...)
	if err != nil {
		return nil, errors.Wrapf(err, "retrieving forest %q", key)
	}
	return f, nil
}

func (rs *redisStore) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	key := rs.keyFor(name)
	_, err := rs.rc.Del(key).Result()
	if err != nil {
		return errors.Wrapf(err, "deleting forest %q from redis", key)
	}
	return nil
}

func (rs *redisStore) Close(ctx context.Context) error {
	return rs.rc.Close()
}

func (rs *redisStore) keyFor(name string) string {
	return fmt.Sprintf("%s:%s", rs.prefix, name)
}
