// Copyright 2018 The go-aurora Authors
// This file is part of the go-aurora library.
//
// The go-aurora library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-aurora library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-aurora library. If not, see <http://www.gnu.org/licenses/>.

package crypto

// FpElement wraps a BN254 base-field value with a method-based API:
// Montgomery conversion, square root, Legendre symbol, batch
// inversion and serialization, on top of the fp* free functions in
// bn254_fp.go.

import (
	"errors"
	"math/big"
)

var (
	errBN254InvalidField = errors.New("bn254: invalid field element")
	errBN254ZeroDivision = errors.New("bn254: division by zero")
)

// Montgomery form parameters for BN254 Fp: R = 2^256 mod p.
var bn254MontR, _ = new(big.Int).SetString("6b0064a1919237eb5ea8b4376e1baf5530e8f84b5f3fa6d1c4c07c918fa7e37", 16)

type FpElement struct {
	v *big.Int
}

// NewFpElement reduces v mod p.
func NewFpElement(v *big.Int) *FpElement {
	r := new(big.Int).Mod(v, bn254P)
	if r.Sign() < 0 {
		r.Add(r, bn254P)
	}
	return &FpElement{v: r}
}

func NewFpElementFromUint64(v uint64) *FpElement {
	return &FpElement{v: new(big.Int).SetUint64(v)}
}

func FpZero() *FpElement { return &FpElement{v: new(big.Int)} }
func FpOne() *FpElement  { return &FpElement{v: big.NewInt(1)} }

func (e *FpElement) BigInt() *big.Int { return new(big.Int).Set(e.v) }
func (e *FpElement) IsZero() bool     { return e.v.Sign() == 0 }
func (e *FpElement) IsOne() bool      { return e.v.Cmp(big.NewInt(1)) == 0 }

func (e *FpElement) Equal(other *FpElement) bool { return e.v.Cmp(other.v) == 0 }

func (e *FpElement) Add(f *FpElement) *FpElement { return &FpElement{v: fpAdd(e.v, f.v)} }
func (e *FpElement) Sub(f *FpElement) *FpElement { return &FpElement{v: fpSub(e.v, f.v)} }
func (e *FpElement) Mul(f *FpElement) *FpElement { return &FpElement{v: fpMul(e.v, f.v)} }
func (e *FpElement) Sqr() *FpElement              { return &FpElement{v: fpSqr(e.v)} }
func (e *FpElement) Neg() *FpElement              { return &FpElement{v: fpNeg(e.v)} }

// Inv returns nil for the zero element.
func (e *FpElement) Inv() *FpElement {
	if e.IsZero() {
		return nil
	}
	return &FpElement{v: fpInv(e.v)}
}

func (e *FpElement) Exp(exp *big.Int) *FpElement { return &FpElement{v: fpExp(e.v, exp)} }

// fpSqrt returns sqrt(a) mod p using p = 3 mod 4, or nil if a has no root.
func fpSqrt(a *big.Int) *big.Int {
	if a.Sign() == 0 {
		return new(big.Int)
	}
	amod := new(big.Int).Mod(a, bn254P)
	exp := new(big.Int).Add(bn254P, big.NewInt(1))
	exp.Rsh(exp, 2)
	r := new(big.Int).Exp(amod, exp, bn254P)
	if new(big.Int).Mul(r, r).Mod(new(big.Int).Mul(r, r), bn254P).Cmp(amod) != 0 {
		return nil
	}
	return r
}

func (e *FpElement) Sqrt() *FpElement {
	r := fpSqrt(e.v)
	if r == nil {
		return nil
	}
	return &FpElement{v: r}
}

// fpLegendreSymbol returns 1 for a nonzero QR, -1 for a non-residue, 0 for zero.
func fpLegendreSymbol(a *big.Int) int {
	if a.Sign() == 0 || new(big.Int).Mod(a, bn254P).Sign() == 0 {
		return 0
	}
	exp := new(big.Int).Sub(bn254P, big.NewInt(1))
	exp.Rsh(exp, 1)
	r := fpExp(a, exp)
	if r.Cmp(big.NewInt(1)) == 0 {
		return 1
	}
	return -1
}

func (e *FpElement) LegendreSymbol() int { return fpLegendreSymbol(e.v) }

func (e *FpElement) IsQuadraticResidue() bool {
	ls := fpLegendreSymbol(e.v)
	return ls == 0 || ls == 1
}

// fpBatchInverse inverts every element in one pass via Montgomery's trick.
func fpBatchInverse(elems []*big.Int) ([]*big.Int, error) {
	n := len(elems)
	if n == 0 {
		return nil, nil
	}

	for _, e := range elems {
		if e.Sign() == 0 || new(big.Int).Mod(e, bn254P).Sign() == 0 {
			return nil, errBN254ZeroDivision
		}
	}

	prefix := make([]*big.Int, n)
	prefix[0] = new(big.Int).Mod(elems[0], bn254P)
	for i := 1; i < n; i++ {
		prefix[i] = fpMul(prefix[i-1], elems[i])
	}

	totalInv := fpInv(prefix[n-1])

	result := make([]*big.Int, n)
	for i := n - 1; i > 0; i-- {
		result[i] = fpMul(totalInv, prefix[i-1])
		totalInv = fpMul(totalInv, elems[i])
	}
	result[0] = totalInv

	return result, nil
}

func FpBatchInverse(elems []*FpElement) ([]*FpElement, error) {
	raws := make([]*big.Int, len(elems))
	for i, e := range elems {
		raws[i] = e.v
	}
	invs, err := fpBatchInverse(raws)
	if err != nil {
		return nil, err
	}
	result := make([]*FpElement, len(invs))
	for i, inv := range invs {
		result[i] = &FpElement{v: inv}
	}
	return result, nil
}

func fpSerialize(a *big.Int) []byte {
	out := make([]byte, 32)
	b := new(big.Int).Mod(a, bn254P).Bytes()
	copy(out[32-len(b):], b)
	return out
}

func fpDeserialize(data []byte) (*big.Int, error) {
	if len(data) != 32 {
		return nil, errBN254InvalidField
	}
	v := new(big.Int).SetBytes(data)
	if v.Cmp(bn254P) >= 0 {
		return nil, errBN254InvalidField
	}
	return v, nil
}

func (e *FpElement) Serialize() []byte { return fpSerialize(e.v) }

func FpDeserialize(data []byte) (*FpElement, error) {
	v, err := fpDeserialize(data)
	if err != nil {
		return nil, err
	}
	return &FpElement{v: v}, nil
}

// ToMontgomery converts e to Montgomery form: mont(a) = a*R mod p.
func (e *FpElement) ToMontgomery() *FpElement {
	return &FpElement{v: fpMul(e.v, bn254MontR)}
}

func (e *FpElement) FromMontgomery() *FpElement {
	rInv := fpInv(bn254MontR)
	return &FpElement{v: fpMul(e.v, rInv)}
}

func fpDiv(a, b *big.Int) (*big.Int, error) {
	if b.Sign() == 0 || new(big.Int).Mod(b, bn254P).Sign() == 0 {
		return nil, errBN254ZeroDivision
	}
	return fpMul(a, fpInv(b)), nil
}

func (e *FpElement) Div(f *FpElement) (*FpElement, error) {
	r, err := fpDiv(e.v, f.v)
	if err != nil {
		return nil, err
	}
	return &FpElement{v: r}, nil
}

func fpDouble(a *big.Int) *big.Int {
	r := new(big.Int).Lsh(a, 1)
	if r.Cmp(bn254P) >= 0 {
		r.Sub(r, bn254P)
	}
	return r
}

func (e *FpElement) Double() *FpElement { return &FpElement{v: fpDouble(e.v)} }

// fpMultiExp computes sum(bases[i] * scalars[i]) mod p.
func fpMultiExp(bases, scalars []*big.Int) *big.Int {
	if len(bases) != len(scalars) {
		return new(big.Int)
	}
	result := new(big.Int)
	for i := range bases {
		result = fpAdd(result, fpMul(bases[i], scalars[i]))
	}
	return result
}

func FpMultiExp(bases, scalars []*FpElement) *FpElement {
	if len(bases) != len(scalars) {
		return FpZero()
	}
	bRaw := make([]*big.Int, len(bases))
	sRaw := make([]*big.Int, len(scalars))
	for i := range bases {
		bRaw[i] = bases[i].v
		sRaw[i] = scalars[i].v
	}
	return &FpElement{v: fpMultiExp(bRaw, sRaw)}
}

func fpSign(a *big.Int) int { return int(new(big.Int).Mod(a, bn254P).Bit(0)) }

func (e *FpElement) Sign() int { return fpSign(e.v) }
