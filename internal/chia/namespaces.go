package chia

// Namespace is one entry of a WalletConnect namespaces proposal.
type Namespace struct {
	Methods []string `json:"methods"`
	Chains  []string `json:"chains"`
	Events  []string `json:"events"`
}

// Namespaces maps a namespace key such as "chia" to its proposal.
type Namespaces map[string]Namespace

// Metadata describes this dApp to the wallet during pairing.
type Metadata struct {
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description" yaml:"description"`
	URL         string   `json:"url" yaml:"url"`
	Icons       []string `json:"icons" yaml:"icons"`
}

const namespaceKey = "chia"

// Chain ids used by Sage.
const (
	ChainMainnet = "chia:mainnet"
	ChainTestnet = "chia:testnet"
)

var DefaultMetadata = Metadata{
	Name:        "Test App",
	Description: "A test application for WalletConnect.",
	URL:         "#",
	Icons:       []string{"https://walletconnect.com/walletconnect-logo.png"},
}

// RequiredNamespaces builds the proposal asking the wallet for every catalog
// method on chainID.
func RequiredNamespaces(chainID string) Namespaces {
	methods := make([]string, 0, len(catalog))
	for _, m := range Methods() {
		methods = append(methods, string(m))
	}
	return Namespaces{
		namespaceKey: {
			Methods: methods,
			Chains:  []string{chainID},
			Events:  []string{},
		},
	}
}
