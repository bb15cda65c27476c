package kernel

import "github.com/gregLibert/emv-kernel/pkg/tlv"

// Card data of a self-consistent certificate chain (CA, issuer and ICC keys
// with exponent 3) and the CDA signature the card returns for the
// transaction run by TestKernel_CDA.
var (
	syntheticCA = tlv.Hex(
		"B434BAB4FA92846C44DC1C5BB29B50DFF3D662B14740EAF5C11B04CC488E4641",
		"A9CDCB76CE86452D212F768A6C883D800664A838BCED8CE266EFD839F242D0FC",
		"2CE5D0EFAA54844B199DC4293626B4216C854ECBE8BD8563D94379F56FFC1327",
		"2139FAB48A631D297605A9236689CD42C46DAAEA0CC75D878A8851158CD564B3",
	)
	syntheticCert90 = tlv.Hex(
		"05E308C03A6B68C15E9305D47500D224FEB262355169C87CF11A3FB212617E44",
		"F2EAC58B7BB9E4EC163ED8BA52D43BFB7C7C32EF6CE7BD47E482AA1E5DE0A24E",
		"B73F830BDD2146A3295BE2805707212F2174442EF02DA2987878F7B9E22AE664",
		"78E87B1FDFB2DCA8528F2085F3FB50734DCB6CAE0639DD8F271641391233C29A",
	)
	syntheticRemainder92 = tlv.Hex(
		"DF507A221E3A81D99C1A5F7E4EF202303E8AAF42F90AE7D763ACAE524D53B2C0",
		"0A65D5D9",
	)
	syntheticCert9F46 = tlv.Hex(
		"457F7AF691A5CBFFBAD6D475B485A68B13EA4B33DF732DE2EE2DC933E958C201",
		"A54C4BB8D3DBC394115A5F76514B25170599710EBDA26E814D0C297A8AC215A4",
		"2B5FCA9402B59B5D8C6ADA1D5355AEAB37D42DA64F17BB4FD886DB9D4BCD3166",
		"A8FB7C5045E31E9E25180CF81C8C01C4DC2C019454BC385475B82AA8DDF039E9",
	)
	syntheticRemainder9F48 = tlv.Hex(
		"19F0EE7C7B3F64A3A4C1",
	)
	syntheticSDAD = tlv.Hex(
		"88AF19FDE6B38897D338A1AEA8578C499B12CF05BB1623E7C2993C53F82E4DDA",
		"3890561698FEC7BFDD824019BEA501E3D22F8294A30874DD951701302E3EE8C6",
		"CC2836DA0A3BB456C6E5CCE624729D7179265B9EB8DE2513B202ADCCB0C57E17",
	)
)
