package mempool

import (
	"github.com/emberchain/emberd/infrastructure/logger"
)

var log = logger.RegisterSubSystem("TXMP")
