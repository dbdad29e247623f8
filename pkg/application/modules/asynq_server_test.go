package modules_test

import (
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"

	"dealsadmin/pkg/application/modules"
)

func TestAsynqServer_RedisOpt(t *testing.T) {
	rq := require.New(t)

	opt := modules.AsynqServer{
		RedisUsername: "notifier",
		RedisPassword: "secret",
		RedisAddress:  "redis:6379",
		RedisDB:       3,
	}.RedisOpt()

	rq.Equal(asynq.RedisClientOpt{
		Addr:     "redis:6379",
		Username: "notifier",
		Password: "secret",
		DB:       3,
	}, opt)
}
