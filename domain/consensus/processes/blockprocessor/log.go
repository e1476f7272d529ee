package blockprocessor

import (
	"github.com/emberchain/emberd/infrastructure/logger"
)

var log = logger.RegisterSubSystem("BDAG")
