// Package chia holds the catalog of Chia wallet methods reachable over a
// WalletConnect session: their wire names, parameter shapes and result shapes.
package chia

// Method is the JSON-RPC method name understood by the wallet.
type Method string

// Methods confirmed working against Sage.
const (
	MethodGetAddress           Method = "chia_getAddress"
	MethodSend                 Method = "chia_send"
	MethodGetNfts              Method = "chia_getNfts"
	MethodSignMessageByAddress Method = "chia_signMessageByAddress"
	MethodTakeOffer            Method = "chia_takeOffer"
	MethodCreateOffer          Method = "chia_createOffer"
	MethodCancelOffer          Method = "chia_cancelOffer"
	MethodBulkMintNfts         Method = "chia_bulkMintNfts"
)

// Descriptor declares which top level params a method requires and which it
// accepts optionally. Names are the JSON field names sent on the wire.
// ItemRequired lists, per array param, the fields every element must carry.
type Descriptor struct {
	Method       Method
	Title        string
	Required     []string
	Optional     []string
	ItemRequired map[string][]string
}

// IsRequired reports whether field must be present for the method.
func (d Descriptor) IsRequired(field string) bool {
	return contains(d.Required, field)
}

// IsOptional reports whether field may be omitted for the method.
func (d Descriptor) IsOptional(field string) bool {
	return contains(d.Optional, field)
}

var catalog = []Descriptor{
	{
		Method: MethodGetAddress,
		Title:  "Get Address",
	},
	{
		Method:   MethodSend,
		Title:    "Send",
		Required: []string{"address", "amount"},
		Optional: []string{"assetId", "fee", "memos"},
	},
	{
		Method:   MethodGetNfts,
		Title:    "Get NFTs",
		Optional: []string{"limit", "offset", "collectionId"},
	},
	{
		Method:   MethodSignMessageByAddress,
		Title:    "Sign Message By Address",
		Required: []string{"message", "address"},
	},
	{
		Method:   MethodTakeOffer,
		Title:    "Take Offer",
		Required: []string{"offer"},
		Optional: []string{"fee"},
	},
	{
		Method:   MethodCreateOffer,
		Title:    "Create Offer",
		Required: []string{"offerAssets", "requestAssets"},
		Optional: []string{"fee"},
		ItemRequired: map[string][]string{
			"offerAssets":   {"amount"},
			"requestAssets": {"amount"},
		},
	},
	{
		Method:   MethodCancelOffer,
		Title:    "Cancel Offer",
		Required: []string{"id"},
		Optional: []string{"fee"},
	},
	{
		Method:   MethodBulkMintNfts,
		Title:    "Bulk Mint NFTs",
		Required: []string{"did", "nfts"},
		Optional: []string{"fee"},
	},
}

var byName = func() map[Method]Descriptor {
	m := make(map[Method]Descriptor, len(catalog))
	for _, d := range catalog {
		m[d.Method] = d
	}
	return m
}()

// Methods returns every catalog method in declaration order.
func Methods() []Method {
	out := make([]Method, 0, len(catalog))
	for _, d := range catalog {
		out = append(out, d.Method)
	}
	return out
}

// Descriptors returns a copy of the catalog.
func Descriptors() []Descriptor {
	out := make([]Descriptor, len(catalog))
	copy(out, catalog)
	return out
}

// Lookup returns the descriptor registered under name.
func Lookup(name string) (Descriptor, bool) {
	d, ok := byName[Method(name)]
	return d, ok
}

// Describe returns the descriptor of m. It panics for methods outside the
// catalog, which only happens on programmer error.
func (m Method) Describe() Descriptor {
	d, ok := byName[m]
	if !ok {
		panic("chia: method not in catalog: " + string(m))
	}
	return d
}

func (m Method) Valid() bool {
	_, ok := byName[m]
	return ok
}

func (m Method) String() string {
	return string(m)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
