package contracts

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"

	"github.com/chinmay1088/tatum-go/api"
)

// ErrUnknownCurrency is returned for currencies missing from a table
var ErrUnknownCurrency = errors.New("unknown currency")

var addresses = map[api.Currency]string{
	api.CurrencyUSDT:      "0xdac17f958d2ee523a2206206994597c13d831ec7",
	api.CurrencyLEO:       "0x2af5d2ad76741191d15dfe7bf6ac92d4bd912ca3",
	api.CurrencyUNI:       "0x1f9840a85d5af5bf1d1762f925bdaddc4201f984",
	api.CurrencyLINK:      "0x514910771af9ca656af840dff83e8264ecf986ca",
	api.CurrencyWBTC:      "0x2260fac5e5542a773aa44fbcfedf7c193bc2c599",
	api.CurrencyFREE:      "0x2f141ce366a2462f02cea3d12cf93e4dca49e4fd",
	api.CurrencyMKR:       "0x9f8f72aa9304c8b593d555f12ef6589cc3a579a2",
	api.CurrencyUSDC:      "0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48",
	api.CurrencyBAT:       "0x0d8775f648430679a709e98d2b0cb6250d2887ef",
	api.CurrencyUSDTMatic: "0xc2132d05d31c914a87c6611c10748aeb04b58e8f",
	api.CurrencyLATOKEN:   "0xe50365f5d679cb98a1dd62d6f6e58e59321bcddf",
	api.CurrencyTUSD:      "0x0000000000085d4780B73119b644AE5ecd22b376",
	api.CurrencyPAX:       "0x8e870d67f660d95d5be530380d0ec0bd388289e1",
	api.CurrencyCOIIN:     "0xd080f46d7781a6c82b3dd74a223b73242884e7e6",
	api.CurrencyGMC:       "0xa6272359bc37f61af398071b65c8934aca744d53",
	api.CurrencyPAXG:      "0x45804880de22913dafe09f4980848ece6ecbaf78",
	api.CurrencyHAG:       "0x44e133e71bf90cb67de4c0f31c391ade021def4a",
	api.CurrencyPLTC:      "0x429d83bb0dcb8cdd5311e34680adc8b12070a07f",
	api.CurrencyMMY:       "0x385ddf50c3de724f6b8ecb41745c29f9dd3c6d75",
	api.CurrencyXCON:      "0x0f237d5ea7876e0e2906034d98fdb20d43666ad4",
	api.CurrencyREVV:      "0x557b933a7c2c45672b610f8954a3deb39a51a8ca",
	api.CurrencyMaticEth:  "0x7d1afa7b718fb893db30a3abc0cfc608aacfebb0",
	api.CurrencySAND:      "0x3845badade8e6dff049820680d1f14bd3903a5d0",
	api.CurrencyUSDTTron:  "TR7NHqjeKQxGTCi8q8ZY4pL8otSzgjLj6t",
	api.CurrencyINRTTron:  "TX66VmiV1txm45vVLvcHYEqPXXLoREyAXm",
	api.CurrencyUSDCMatic: "0x2791bca1f2de4661ed88a30c99a7a9449aa84174",
	api.CurrencyUSDCBsc:   "0x8ac76a51cc950d9822d68b83fe1ad97b32cd580d",
	api.CurrencyB2UBsc:    "0x02926e6e2898e9235fdddde3f51c3b644af8c403",
	api.CurrencyBUSD:      "0x4fabb145d64652a948d72533023f6e7a623c7c53",
	api.CurrencyBETH:      "0x2170ed0880ac9a755fd29b2688956bd959f933f8",
	api.CurrencyBBTC:      "0x7130d2a12b9bcbfae4f2634d864a1ee1ce3ead9c",
	api.CurrencyBADA:      "0x3ee2200efb3400fabb9aacf31297cbdd1d435d47",
	api.CurrencyRMD:       "0x02888e65324a98219c26f292e7cd3e52ef39c5c2",
	api.CurrencyWBNB:      "0xbb4CdB9CBd36B01bD1cBaEBF2De08d9173bc095c",
	api.CurrencyBDOT:      "0x7083609fce4d1d8dc0c979aab8c869ea2c873402",
	api.CurrencyBXRP:      "0x1d2f0da169ceb9fc7b3144628db156f3f6c60dbe",
	api.CurrencyBLTC:      "0x4338665cbb7b2485a8855a139b75d5e34ab0db94",
	api.CurrencyBBCH:      "0x8ff795a6f4d97e7887c79bea79aba5cc76444adf",
	api.CurrencyCAKE:      "0x0e09fabb73bd3ade0a17ecc321fd13a19e81ce82",
	api.CurrencyBUSDBsc:   "0xe9e7cea3dedca5984780bafc599bd69add087d56",
	api.CurrencyUSDTBsc:   "0x55d398326f99059ff775485246999027b3197955",
	api.CurrencyGMCBsc:    "0xa6272359bc37f61af398071b65c8934aca744d53",
}

var decimals = map[api.Currency]int32{
	api.CurrencyUSDT:      6,
	api.CurrencyUSDTTron:  6,
	api.CurrencyINRTTron:  2,
	api.CurrencyUSDTMatic: 6,
	api.CurrencyWBTC:      8,
	api.CurrencyLEO:       18,
	api.CurrencyLATOKEN:   18,
	api.CurrencyCOIIN:     18,
	api.CurrencyRMD:       18,
	api.CurrencyMaticEth:  18,
	api.CurrencyGMC:       18,
	api.CurrencyGMCBsc:    18,
	api.CurrencyBUSD:      18,
	api.CurrencyCAKE:      18,
	api.CurrencyBUSDBsc:   18,
	api.CurrencyUSDTBsc:   18,
	api.CurrencyLINK:      18,
	api.CurrencyUNI:       18,
	api.CurrencyFREE:      18,
	api.CurrencyMKR:       18,
	api.CurrencyUSDC:      6,
	api.CurrencyHAG:       8,
	api.CurrencyBAT:       18,
	api.CurrencyTUSD:      18,
	api.CurrencyPAX:       18,
	api.CurrencyPAXG:      18,
	api.CurrencyPLTC:      18,
	api.CurrencyMMY:       18,
	api.CurrencyXCON:      18,
	api.CurrencyREVV:      18,
	api.CurrencySAND:      18,
	api.CurrencyUSDCMatic: 6,
	api.CurrencyUSDCBsc:   18,
	api.CurrencyB2UBsc:    18,
	api.CurrencyBETH:      18,
	api.CurrencyBBTC:      18,
	api.CurrencyBADA:      18,
	api.CurrencyWBNB:      18,
	api.CurrencyBDOT:      18,
	api.CurrencyBXRP:      18,
	api.CurrencyBLTC:      18,
	api.CurrencyBBCH:      18,
}

// Address returns the contract address of a well-known token
func Address(currency api.Currency) (string, error) {
	addr, ok := addresses[normalize(currency)]
	if !ok {
		return "", fmt.Errorf("%w: no contract address for %s", ErrUnknownCurrency, currency)
	}
	return addr, nil
}

// Decimals returns the decimal precision of a well-known token
func Decimals(currency api.Currency) (int32, error) {
	d, ok := decimals[normalize(currency)]
	if !ok {
		return 0, fmt.Errorf("%w: no decimals for %s", ErrUnknownCurrency, currency)
	}
	return d, nil
}

// Currencies lists every currency with a known contract address, sorted
func Currencies() []api.Currency {
	out := make([]api.Currency, 0, len(addresses))
	for c := range addresses {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func normalize(c api.Currency) api.Currency {
	return api.Currency(strings.ToUpper(strings.TrimSpace(string(c))))
}

// parsed once at init; the JSON below is constant so a failure is a programming error
func mustParse(def string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(def))
	if err != nil {
		panic(fmt.Sprintf("contracts: invalid ABI: %v", err))
	}
	return parsed
}
