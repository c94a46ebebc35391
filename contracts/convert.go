package contracts

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Unpacked ABI values arrive as interface{}. These helpers normalize them
// to a single representation and reject anything that does not decode to
// the expected shape, so a corrupted field drops the token instead of
// producing a record with garbage in it.

func integrityErr(method string, index int, want string, got interface{}) *ChainCallError {
	return &ChainCallError{
		Method: method,
		Kind:   KindIntegrity,
		Reason: fmt.Sprintf("output %d: expected %s, got %T", index, want, got),
	}
}

func asBigInt(method string, values []interface{}, index int) (*big.Int, error) {
	if index >= len(values) {
		return nil, integrityErr(method, index, "uint256", nil)
	}
	v, ok := values[index].(*big.Int)
	if !ok || v == nil {
		return nil, integrityErr(method, index, "uint256", values[index])
	}
	return v, nil
}

func asUint8(method string, values []interface{}, index int) (uint8, error) {
	if index >= len(values) {
		return 0, integrityErr(method, index, "uint8", nil)
	}
	switch v := values[index].(type) {
	case uint8:
		return v, nil
	case *big.Int:
		if v == nil || !v.IsUint64() || v.Uint64() > 255 {
			return 0, integrityErr(method, index, "uint8", values[index])
		}
		return uint8(v.Uint64()), nil
	default:
		return 0, integrityErr(method, index, "uint8", values[index])
	}
}

func asBool(method string, values []interface{}, index int) (bool, error) {
	if index >= len(values) {
		return false, integrityErr(method, index, "bool", nil)
	}
	v, ok := values[index].(bool)
	if !ok {
		return false, integrityErr(method, index, "bool", values[index])
	}
	return v, nil
}

func asString(method string, values []interface{}, index int) (string, error) {
	if index >= len(values) {
		return "", integrityErr(method, index, "string", nil)
	}
	v, ok := values[index].(string)
	if !ok {
		return "", integrityErr(method, index, "string", values[index])
	}
	return v, nil
}

func asStrings(method string, values []interface{}, index int) ([]string, error) {
	if index >= len(values) {
		return nil, integrityErr(method, index, "string[]", nil)
	}
	v, ok := values[index].([]string)
	if !ok {
		return nil, integrityErr(method, index, "string[]", values[index])
	}
	return v, nil
}

func asAddress(method string, values []interface{}, index int) (common.Address, error) {
	if index >= len(values) {
		return common.Address{}, integrityErr(method, index, "address", nil)
	}
	v, ok := values[index].(common.Address)
	if !ok {
		return common.Address{}, integrityErr(method, index, "address", values[index])
	}
	return v, nil
}
