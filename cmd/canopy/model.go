package main

import (
	"context"
	"os"
	"strings"

	"github.com/pbanos/canopy/forest"
	"github.com/pbanos/canopy/forest/redisstore"
	"github.com/pbanos/canopy/tree/xml"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/redis.v5"
)

// DefaultRedisPrefix is the prefix of the keys forests are stored under on redis
const DefaultRedisPrefix = "canopy:forests"

type storeConfig struct {
	redisAddr   string
	redisPrefix string
	name        string
}

func (sc *storeConfig) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&(sc.redisAddr), "redis-addr", "", "address of a redis server used as forest store")
	cmd.Flags().StringVar(&(sc.redisPrefix), "redis-prefix", DefaultRedisPrefix, "prefix of the keys of forests on the redis store")
	cmd.Flags().StringVar(&(sc.name), "name", "", "name of the forest on the redis store")
}

func (sc *storeConfig) enabled() bool {
	return sc.redisAddr != ""
}

func (sc *storeConfig) Validate() error {
	if sc.enabled() && sc.name == "" {
		return errors.New("a name is required to use the redis store")
	}
	return nil
}

func (sc *storeConfig) store() forest.Store {
	return redisstore.New(redis.NewClient(&redis.Options{Addr: sc.redisAddr}), sc.redisPrefix)
}

type modelConfig struct {
	storeConfig
	modelInput string
}

func (mc *modelConfig) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&(mc.modelInput), "model", "f", "", "path to a file from which the forest will be read, as JSON or, with an .xml extension, as XML")
	mc.storeConfig.addFlags(cmd)
}

func (mc *modelConfig) Validate() error {
	if mc.modelInput == "" && !mc.enabled() {
		return errors.New("either the model or the redis-addr flag must be set")
	}
	return mc.storeConfig.Validate()
}

func (mc *modelConfig) load(ctx context.Context, opts ...forest.Option) (*forest.Forest, error) {
	if mc.modelInput == "" {
		s := mc.store()
		defer s.Close(ctx)
		f, err := s.Get(ctx, mc.name, opts...)
		if err != nil {
			return nil, err
		}
		if f == nil {
			return nil, errors.Errorf("no forest named %q on the store", mc.name)
		}
		return f, nil
	}
	file, err := os.Open(mc.modelInput)
	if err != nil {
		return nil, errors.Wrapf(err, "opening model at %s", mc.modelInput)
	}
	defer file.Close()
	if strings.HasSuffix(mc.modelInput, ".xml") {
		trees, err := xml.ReadForest(file)
		if err != nil {
			return nil, errors.Wrapf(err, "parsing forest in XML from %s", mc.modelInput)
		}
		return forest.FromTrees(forest.Config{NumTrees: len(trees)}, trees, opts...), nil
	}
	f, err := forest.ReadJSON(file, opts...)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing forest in JSON from %s", mc.modelInput)
	}
	return f, nil
}

func forestOptions(rcc *rootCmdConfig) []forest.Option {
	return []forest.Option{forest.Logger(rcc.log), forest.Metrics(rcc.metrics)}
}
