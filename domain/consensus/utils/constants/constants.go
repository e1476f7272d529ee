package constants

const (
	// MaxBlockVersion represents the current version of blocks mined and
	// the maximum block version this node is able to validate
	MaxBlockVersion uint16 = 1

	// MaxTransactionVersion is the current latest supported transaction
	// version.
	MaxTransactionVersion uint16 = 1

	// SparkPerEmber is the number of spark in one ember (1 EMB).
	SparkPerEmber = 100_000_000

	// MaxSpark is the maximum transaction amount allowed in spark.
	MaxSpark = 21_000_000 * SparkPerEmber

	// MaxCoinbasePayloadLength is the maximum length in bytes allowed for
	// a coinbase transaction's payload.
	MaxCoinbasePayloadLength = 150

	// MaxScriptPublicKeyLength is the maximum length in bytes allowed for
	// an output's locking script.
	MaxScriptPublicKeyLength = 10_000

	// LockTimeThreshold is the number below which a transaction lock time
	// is interpreted as a block height rather than a timestamp.
	LockTimeThreshold = 5e11
)
