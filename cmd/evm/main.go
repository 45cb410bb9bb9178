// Package main implements a standalone bytecode runner: spec.md §6's
// "run a single init/runtime code blob against a scratch WorldState and
// print the outcome" tool, standing in for the host embedder the
// interpreter core otherwise has no entrypoint without.
package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"math/big"
	"os"
	"strings"
	"time"

	"github.com/openevm/goevm/common"
	"github.com/openevm/goevm/core"
	"github.com/openevm/goevm/core/state"
	"github.com/openevm/goevm/core/vm"
	"github.com/openevm/goevm/log"
	"github.com/openevm/goevm/params"
)

var (
	codeFlat   = flag.String("code", "", "hex-encoded contract code to execute (0x prefix optional)")
	inputFlag  = flag.String("input", "", "hex-encoded call data")
	gasFlag    = flag.Uint64("gas", 10_000_000, "gas available to the run")
	valueFlag  = flag.String("value", "0", "value (wei, decimal) sent with the call")
	senderFlag = flag.String("sender", "0x00000000000000000000000000000000000a11ce", "caller address")
	forkFlag   = flag.String("fork", "constantinople", "frontier|eip150|eip158|byzantium|constantinople")
	dumpFlag   = flag.Bool("dump", false, "dump the sender and receiver account state after execution")
)

func main() {
	flag.Parse()

	if *codeFlat == "" {
		fmt.Fprintln(os.Stderr, "missing -code")
		os.Exit(1)
	}

	code, err := parseHex(*codeFlat)
	if err != nil {
		log.Errorf("bad -code: %v", err)
		os.Exit(1)
	}
	input, err := parseHex(*inputFlag)
	if err != nil {
		log.Errorf("bad -input: %v", err)
		os.Exit(1)
	}
	value, ok := new(big.Int).SetString(*valueFlag, 10)
	if !ok {
		log.Errorf("bad -value: %q", *valueFlag)
		os.Exit(1)
	}

	chainConfig, err := forkConfig(*forkFlag)
	if err != nil {
		log.Errorf("%v", err)
		os.Exit(1)
	}

	sender := common.HexToAddress(*senderFlag)
	receiver := common.HexToAddress("0x000000000000000000000000000000000000ff")

	statedb := state.New()
	statedb.CreateAccount(sender)
	statedb.AddBalance(sender, new(big.Int).Lsh(big.NewInt(1), 128))
	statedb.CreateAccount(receiver)
	statedb.SetCode(receiver, code)

	ctx := core.NewEVMContext(sender, new(big.Int), core.BlockContext{
		Coinbase:   common.Address{},
		Number:     new(big.Int),
		Time:       big.NewInt(time.Now().Unix()),
		Difficulty: new(big.Int),
		GasLimit:   *gasFlag,
	})

	evm := vm.NewEVM(ctx, statedb, chainConfig, vm.Config{TraceInternalTransactions: true})

	callValue := new(vm.Word)
	callValue.SetFromBig(value)
	ret, leftOverGas, err := evm.Call(vm.AccountRef(sender), receiver, input, *gasFlag, callValue)
	elapsed := *gasFlag - leftOverGas

	fmt.Printf("output:     %s\n", hex.EncodeToString(ret))
	fmt.Printf("gas used:   %d\n", elapsed)
	fmt.Printf("gas left:   %d\n", leftOverGas)
	if err != nil {
		fmt.Printf("error:      %v\n", err)
	}
	for _, tx := range evm.InnerTxs {
		fmt.Printf("inner tx:   %s -> %s value %s\n", tx.From.Hex(), tx.To.Hex(), tx.Value)
	}

	if *dumpFlag {
		fmt.Printf("sender balance:   %s\n", statedb.GetBalance(sender))
		fmt.Printf("receiver balance: %s\n", statedb.GetBalance(receiver))
	}

	if err != nil {
		os.Exit(1)
	}
}

func parseHex(s string) ([]byte, error) {
	s = strings.TrimPrefix(s, "0x")
	if s == "" {
		return nil, nil
	}
	return hex.DecodeString(s)
}

func forkConfig(name string) (*params.ChainConfig, error) {
	zero := big.NewInt(0)
	switch strings.ToLower(name) {
	case "frontier":
		return params.FrontierChainConfig, nil
	case "eip150":
		return &params.ChainConfig{ChainID: big.NewInt(1), HomesteadBlock: zero, EIP150Block: zero}, nil
	case "eip158":
		return &params.ChainConfig{ChainID: big.NewInt(1), HomesteadBlock: zero, EIP150Block: zero, EIP155Block: zero, EIP158Block: zero, ExceptionalFailedCodeDeposit: true}, nil
	case "byzantium":
		return &params.ChainConfig{ChainID: big.NewInt(1), HomesteadBlock: zero, EIP150Block: zero, EIP155Block: zero, EIP158Block: zero, ByzantiumBlock: zero, ExceptionalFailedCodeDeposit: true}, nil
	case "constantinople":
		return params.AllProtocolChanges, nil
	default:
		return nil, fmt.Errorf("unknown fork %q", name)
	}
}
