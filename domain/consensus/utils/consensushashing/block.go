package consensushashing

import (
	"github.com/emberchain/emberd/domain/consensus/model/externalapi"
	"github.com/emberchain/emberd/domain/consensus/utils/hashes"
	"github.com/emberchain/emberd/domain/consensus/utils/serialization"
	"github.com/pkg/errors"
)

// BlockHash returns the given block's hash
func BlockHash(block *externalapi.DomainBlock) *externalapi.DomainHash {
	return HeaderHash(block.Header)
}

// HeaderHash returns the given header's hash
func HeaderHash(header *externalapi.DomainBlockHeader) *externalapi.DomainHash {
	// Encode the header and hash everything prior to the number of
	// transactions.
	writer := hashes.NewBlockHashWriter()
	err := serialization.SerializeHeader(writer, header)
	if err != nil {
		// It seems like this could only happen if the writer returned an
		// error and this writer should never fail.
		panic(errors.Wrap(err, "this should never happen. Hash digest should never return an error"))
	}

	return writer.Finalize()
}
