// Package autoload initializes the global logger from the environment when
// imported for side effect.
package autoload

import (
	configx "github.com/tanpawarit/Trivium-Parallel-Research-Agent/pkg/config"
	logx "github.com/tanpawarit/Trivium-Parallel-Research-Agent/pkg/logger"
)

func init() {
	cfg := configx.MustNew[logx.Config]("LOG")
	logx.Init(*cfg)
}
