package txscript

import (
	"github.com/kaspanet/go-secp256k1"
	"github.com/pkg/errors"
)

// The script model is deliberately small: a locking script is a serialized
// schnorr public key and an unlocking script is a serialized schnorr
// signature over the input's signature hash.

// PayToPubKeyScript returns a locking script that pays to the given
// serialized schnorr public key.
func PayToPubKeyScript(serializedPublicKey []byte) ([]byte, error) {
	if len(serializedPublicKey) != secp256k1.SerializedSchnorrPublicKeySize {
		return nil, errors.Errorf("serialized public key is %d bytes long, expected %d",
			len(serializedPublicKey), secp256k1.SerializedSchnorrPublicKeySize)
	}
	script := make([]byte, len(serializedPublicKey))
	copy(script, serializedPublicKey)
	return script, nil
}

// PayToPubKeyScriptForKeyPair is a convenience wrapper that derives the
// public key from the given key pair and returns its locking script.
func PayToPubKeyScriptForKeyPair(keyPair *secp256k1.SchnorrKeyPair) ([]byte, error) {
	publicKey, err := keyPair.SchnorrPublicKey()
	if err != nil {
		return nil, err
	}
	serializedPublicKey, err := publicKey.Serialize()
	if err != nil {
		return nil, err
	}
	return PayToPubKeyScript(serializedPublicKey[:])
}
