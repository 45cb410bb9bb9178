package params

// Protocol-wide limits consumed directly by core/vm, independent of the
// per-fork gas prices (those live in FeeSchedule, gas_table.go).
const (
	GasLimitBoundDivisor uint64 = 1024
	MinGasLimit          uint64 = 5000
	GenesisGasLimit      uint64 = 4712388

	MaximumExtraDataSize uint64 = 32

	// StackLimit is the maximum depth of the EVM operand stack, spec.md §3/§4.3.
	StackLimit uint64 = 1024
	// CallCreateDepth is the maximum nesting depth of CALL/CREATE frames, spec.md §4.7/§4.9.
	CallCreateDepth uint64 = 1024

	// MaxCodeSize is the EIP-170 contract code size ceiling.
	MaxCodeSize = 24576

	// Precompiled contract gas prices for ecrecover, sha256, ripemd160,
	// identity and modexp; the bn256 prices follow below (SPEC_FULL.md
	// §4.12 lists all eight implementations).
	EcrecoverGas        uint64 = 3000
	Sha256BaseGas       uint64 = 60
	Sha256PerWordGas    uint64 = 12
	Ripemd160BaseGas    uint64 = 600
	Ripemd160PerWordGas uint64 = 120
	IdentityBaseGas     uint64 = 15
	IdentityPerWordGas  uint64 = 3
	ModExpQuadCoeffDiv  uint64 = 20

	// Bn256* are the Byzantium-era EIP-196/EIP-197 prices for the
	// bn256Add/bn256ScalarMul/bn256Pairing precompiles, addresses
	// 0x06-0x08, gated on Rules.IsByzantium (SPEC_FULL.md §4.12).
	Bn256AddGas             uint64 = 500
	Bn256ScalarMulGas       uint64 = 40000
	Bn256PairingBaseGas     uint64 = 100000
	Bn256PairingPerPointGas uint64 = 80000
)
