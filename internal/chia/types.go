package chia

import "encoding/json"

// AssetAmount pairs an asset id with an amount. An empty AssetID means XCH.
type AssetAmount struct {
	AssetID string `json:"assetId"`
	Amount  Amount `json:"amount"`
}

// NftMint describes one NFT of a bulk mint. Every field is optional.
type NftMint struct {
	Address               string   `json:"address,omitempty"`
	RoyaltyAddress        string   `json:"royaltyAddress,omitempty"`
	RoyaltyTenThousandths int      `json:"royaltyTenThousandths,omitempty"`
	DataURIs              []string `json:"dataUris,omitempty"`
	DataHash              string   `json:"dataHash,omitempty"`
	MetadataURIs          []string `json:"metadataUris,omitempty"`
	MetadataHash          string   `json:"metadataHash,omitempty"`
	LicenseURIs           []string `json:"licenseUris,omitempty"`
	LicenseHash           string   `json:"licenseHash,omitempty"`
	EditionNumber         int      `json:"editionNumber,omitempty"`
	EditionTotal          int      `json:"editionTotal,omitempty"`
}

type GetAddressRequest struct{}

type GetAddressResult struct {
	Address string `json:"address"`
}

type SendRequest struct {
	AssetID string   `json:"assetId,omitempty"`
	Amount  Amount   `json:"amount"`
	Fee     Amount   `json:"fee"`
	Address string   `json:"address"`
	Memos   []string `json:"memos,omitempty"`
}

type SendResult struct{}

type GetNftsRequest struct {
	Limit        int    `json:"limit,omitempty"`
	Offset       int    `json:"offset,omitempty"`
	CollectionID string `json:"collectionId,omitempty"`
}

// GetNftsResult keeps each NFT as raw JSON; the record layout belongs to the wallet.
type GetNftsResult struct {
	Nfts []json.RawMessage `json:"nfts"`
}

type SignMessageByAddressRequest struct {
	Message string `json:"message"`
	Address string `json:"address"`
}

type SignMessageByAddressResult struct {
	PublicKey string `json:"publicKey"`
	Signature string `json:"signature"`
}

type TakeOfferRequest struct {
	Offer string `json:"offer"`
	Fee   Amount `json:"fee"`
}

type TakeOfferResult struct {
	ID string `json:"id"`
}

type CreateOfferRequest struct {
	OfferAssets   []AssetAmount `json:"offerAssets"`
	RequestAssets []AssetAmount `json:"requestAssets"`
	Fee           Amount        `json:"fee"`
}

type CreateOfferResult struct {
	ID    string `json:"id"`
	Offer string `json:"offer"`
}

type CancelOfferRequest struct {
	ID  string `json:"id"`
	Fee Amount `json:"fee"`
}

type CancelOfferResult struct{}

type BulkMintNftsRequest struct {
	DID  string    `json:"did"`
	Nfts []NftMint `json:"nfts"`
	Fee  Amount    `json:"fee"`
}

type BulkMintNftsResult struct {
	NftIDs []string `json:"nftIds"`
}
