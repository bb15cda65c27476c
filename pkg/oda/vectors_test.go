package oda

import "github.com/gregLibert/emv-kernel/pkg/tlv"

// Known-answer vectors. The synthetic chain uses generated keys with exponent
// 3; the others were captured from cards.
var (
	syntheticCA = tlv.Hex(
		"B434BAB4FA92846C44DC1C5BB29B50DFF3D662B14740EAF5C11B04CC488E4641",
		"A9CDCB76CE86452D212F768A6C883D800664A838BCED8CE266EFD839F242D0FC",
		"2CE5D0EFAA54844B199DC4293626B4216C854ECBE8BD8563D94379F56FFC1327",
		"2139FAB48A631D297605A9236689CD42C46DAAEA0CC75D878A8851158CD564B3",
	)
	syntheticIssuer = tlv.Hex(
		"C40552E5C6DB892773080EB4D4171849E3B4F837ECF28B6BFC3306215921F6DE",
		"A317D54DC985307436B1436B821A134A3E983DAB9CFB67342A3F392E2650BD35",
		"9C055FD875AE0339F543F220246B0B4FAE4FFDEFE3B0180E83438F83DF507A22",
		"1E3A81D99C1A5F7E4EF202303E8AAF42F90AE7D763ACAE524D53B2C00A65D5D9",
	)
	syntheticICC = tlv.Hex(
		"AC67D498C589C1C40DBD953CC4CD9C223F6D31BB9A923DB47629854710FF02E2",
		"6052AD3852B4E7658775ACE5BBA14C3812141176475C5DC15986CDFF1C71CB39",
		"B407119DF7416032AF12DCC0798F757CD9817D685FFB19F0EE7C7B3F64A3A4C1",
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
	syntheticSSAD = tlv.Hex(
		"02F2E6949E91F4CBDCC05BAAF20C61AA363B5833D9AA23F78BDBB2C3785F7B17",
		"EFDCD9D9501F66AB7F831448E64A9F778F4B98B58A738720E0472252D9270B9E",
		"01A95DC320141A561D91C0D90AA67F31B66109C74249468FAC52D4A96A44695E",
		"F5691F92B5B19974A24AB4BC378F60985E74B049DD68EC14C23F4008CB875222",
	)
	syntheticSDAD = tlv.Hex(
		"88AF19FDE6B38897D338A1AEA8578C499B12CF05BB1623E7C2993C53F82E4DDA",
		"3890561698FEC7BFDD824019BEA501E3D22F8294A30874DD951701302E3EE8C6",
		"CC2836DA0A3BB456C6E5CCE624729D7179265B9EB8DE2513B202ADCCB0C57E17",
	)
	syntheticTemplate77 = tlv.Hex(
		"9F2701809F360200079F4B6088AF19FDE6B38897D338A1AEA8578C499B12CF05",
		"BB1623E7C2993C53F82E4DDA3890561698FEC7BFDD824019BEA501E3D22F8294",
		"A30874DD951701302E3EE8C6CC2836DA0A3BB456C6E5CCE624729D7179265B9E",
		"B8DE2513B202ADCCB0C57E179F10070A010100000000",
	)
	syntheticDynamic = tlv.Hex(
		"080102030405060708801122334455667788F9491EC8B2336F7C4D4A28413F8F",
		"AB5D8A484C03",
	)
	amexCA = tlv.Hex(
		"B362DB5733C15B8797B8ECEE55CB1A371F760E0BEDD3715BB270424FD4EA2606",
		"2C38C3F4AAA3732A83D36EA8E9602F6683EECC6BAFF63DD2D49014BDE4D6D603",
		"CD744206B05B4BAD0C64C63AB3976B5C8CAAF8539549F5921C0B700D5B0F83C4",
		"E7E946068BAAAB5463544DB18C63801118F2182EFCC8A1E85E53C2A7AE839A5C",
		"6A3CABE73762B70D170AB64AFC6CA482944902611FB0061E09A67ACB77E493D9",
		"98A0CCF93D81A4F6C0DC6B7DF22E62DB",
	)
	amexCert90 = tlv.Hex(
		"20DF7FF4B9968169B50DABED606B2FA12A0A26ED0A9791F5FE16965AC3A3AC60",
		"924BA722A7EA668D40C79A7A8F519949A2E7059CCD4685C16465084A47AA7119",
		"2ABEF7D45AAE2513501D81BA150A6C533B02026C275888DA3E2D62C1554ED49B",
		"C9BECABF24387B1BDE7A06E9861B6CC0F0DACCC001393D4E4CB976EBB3C2FC01",
		"65D4A32C0CB99BD8549B8295026620D028204524ACED3379558490450D21B6A0",
		"62204FAF5160FE24CF5AC5F2D9B20533",
	)
	amexRemainder92 = tlv.Hex(
		"8FC44EE8B5ECB266790274EEF50A9F6BD598C58C444508E6DF9AB7A5028DE7DE",
		"B5DA6BDB",
	)
	amexIssuer = tlv.Hex(
		"CAFACCC90D61D0469BFE90FB93EC91CFC778A4BAB22377D361D7FA536D85AB3D",
		"8546B26CE145A096462BF08247773FDAA4818D5B90789A4DFDDC148D520AA75C",
		"3775E4F2E0CD240536FDF05E90DD0C6CB2EC25B85B4480F64B6852C7B71D152C",
		"461D18E25571FE6C2069840EFBCDEF880F7EF8B0FB7C3E2B89C95F003F977A33",
		"7B82C10EFF4E27A55A757C628FC44EE8B5ECB266790274EEF50A9F6BD598C58C",
		"444508E6DF9AB7A5028DE7DEB5DA6BDB",
	)
	amexCert9F46 = tlv.Hex(
		"5F9CAF135C826BE612AFE7FE141E3D41E1E7A2AF8BB5EDE18745225954ABEA53",
		"62C94BBBF13C3CAD1F08BD1D6BD9C424EF0EF6DEDE36BD292E12DA7C24459E2F",
		"BEC191C625032F59B7F61E045DC6E536F0E53D0ACB0E8E342DC79F2384C37E34",
		"6C7B56326898DEDB7766603FAC80691ABAE30593E909F4B5E39236D0EB450821",
		"4E2BD0344B72CBD1048B294A592B84BA01E646760ED07B5AF0034FB3EA9D7840",
		"9CFE45E3BDF916DA1789C924F2379AE6",
	)
	amexSDAD = tlv.Hex(
		"0BE989C0E4C6E26455F9CE7CD0DFDA1EC11BE4A252747863EE2717469387D822",
		"8223F2419ACF0D6231C61A5CC3B4B3084AEBF1F448E2A13C75D12817C9AB324F",
		"B9010380561BC4C30A9CC56E1DD7FA12CC7853C847DF5E96EAAF16A9ADAFCDAB",
		"15F412DFB3BD02A8C83C2470D8F0E1B2",
	)
	visaCA = tlv.Hex(
		"BE9E1FA5E9A803852999C4AB432DB28600DCD9DAB76DFAAA47355A0FE37B1508",
		"AC6BF38860D3C6C2E5B12A3CAAF2A7005A7241EBAA7771112C74CF9A0634652F",
		"BCA0E5980C54A64761EA101A114E0F0B5572ADD57D010B7C9C887E104CA4EE12",
		"72DA66D997B9A90B5A6D624AB6C57E73C8F919000EB5F684898EF8C3DBEFB330",
		"C62660BED88EA78E909AFF05F6DA627B",
	)
	visaCert90 = tlv.Hex(
		"7F4C6034C33BF35BAFFF53F51C0F8A2B32C8FDE1D033DDB69DCA85C5B4797BD2",
		"F55BE970C026B75B76E9C17E8564111FDEB97B26E350F59F6C63C30B0BD80E33",
		"123DF73CF8F87B28D54D28E4D6284F44E6E61AD95826474EBF6C28796B9B222D",
		"F14194A539E92DB185D86D8EDDD8AA01ECBE93E0EC3F87383D879534FE0BD397",
		"D7D59FC6E37012258B894400EE715338",
	)
	visaRemainder92 = tlv.Hex(
		"9A2FA99FC6CCA575875E108D7D847600A0D0863C549553E12EC75362597CEB2F",
		"16780BF1",
	)
	visaCert9F46 = tlv.Hex(
		"1640CA8EEC4BA011D575D46F601DFBB22252076BDFD5360D7773BC38BE971A85",
		"26A3CEE1EDFD9BDC69CEE6E71D91A4B731C8B4290F5E4ADD046AAB8245CC0779",
		"4030038C5FCB4270B15DEA6D895CCF67916314D5EC7F86BDD640792454870773",
		"BE5D28740FF1970C02A694C7AAEB9145D89F2BED9D8C982A2D388EFA0F26E86F",
		"73AFDB32A93913E28C6569F04DE4C509",
	)
	visaRemainder9F48 = tlv.Hex(
		"2F40C2050FCB169EF11D",
	)
	visaICC = tlv.Hex(
		"A5ECC75561EFE21E8DD77F32C05B41F39902B6F430C09F270FB09B53CA22F3E9",
		"0CDD4613073AC20DF17528BACA7E18C2FDCECD33105D180FB2074727456AE104",
		"FE81FE1A0AB922A0CC8A394DE782D7888F636F3F07535864CBFB0DA32C22A2C7",
		"04F4F209CF902F40C2050FCB169EF11D",
	)
	sdaCA = tlv.Hex(
		"AF0754EAED977043AB6F41D6312AB1E22A6809175BEB28E70D5F99B2DF18CAE7",
		"3519341BBBD327D0B8BE9D4D0E15F07D36EA3E3A05C892F5B19A3E9D3413B0D9",
		"7E7AD10A5F5DE8E38860C0AD004B1E06F4040C295ACB457A788551B6127C0B29",
	)
	sdaCert90 = tlv.Hex(
		"191AB5AC03365D5E9515C398CCC5C744A728A4FCFDE194D0B88B0FA1673AEBDD",
		"8AAADF0EDBBC12414E7107A9F2B02DFB3985167C0EE9CDF3CB78749BF6D0AAE6",
		"0E4C979F7E2AE635A77451B0E2F2EB136AB02076CBE1E70CC4EE5529434A9EC6",
	)
	sdaRemainder92 = tlv.Hex(
		"CFB8D4885D960967179F982D42CE54ECC2054683",
	)
	sdaSSAD = tlv.Hex(
		"110BB9DF2D21981906B29A301411F9FA60CF494DBABABF54B1797C9C4B5D99B5",
		"E67AB73049E771FC5FDC23E58350B781005324D31DC87AD0FBF636733808056D",
		"66074632711E7CBF14073796E1B60D4D",
	)
)
