package http

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"moff.io/chia-walletconnect/internal/chia"
	"moff.io/chia-walletconnect/internal/rpc"
	"moff.io/chia-walletconnect/pkg/errors"
)

// Field kinds rendered by the form page.
const (
	kindText   = "text"
	kindNumber = "number"
	kindList   = "list"
	kindJSON   = "json"
)

// FormField is one input of a method form. Name is the form key and matches
// the wire param it populates.
type FormField struct {
	Name     string `json:"name"`
	Label    string `json:"label"`
	Kind     string `json:"kind"`
	Required bool   `json:"required"`
}

var formFields = map[chia.Method][]FormField{
	chia.MethodGetAddress: {},
	chia.MethodSend: {
		{Name: "address", Label: "Address", Kind: kindText},
		{Name: "amount", Label: "Amount", Kind: kindNumber},
		{Name: "fee", Label: "Fee", Kind: kindNumber},
		{Name: "assetId", Label: "Asset ID (optional)", Kind: kindText},
		{Name: "memos", Label: "Memos (comma-separated)", Kind: kindList},
	},
	chia.MethodGetNfts: {
		{Name: "limit", Label: "Limit", Kind: kindNumber},
		{Name: "offset", Label: "Offset", Kind: kindNumber},
		{Name: "collectionId", Label: "Collection ID (optional)", Kind: kindText},
	},
	chia.MethodSignMessageByAddress: {
		{Name: "message", Label: "Message", Kind: kindText},
		{Name: "address", Label: "Address", Kind: kindText},
	},
	chia.MethodTakeOffer: {
		{Name: "offer", Label: "Offer", Kind: kindText},
		{Name: "fee", Label: "Fee", Kind: kindNumber},
	},
	chia.MethodCreateOffer: {
		{Name: "offerAssets", Label: `Offer Assets (JSON, [{"assetId":"","amount":1}])`, Kind: kindJSON},
		{Name: "requestAssets", Label: `Request Assets (JSON, [{"assetId":"","amount":1}])`, Kind: kindJSON},
		{Name: "fee", Label: "Fee", Kind: kindNumber},
	},
	chia.MethodCancelOffer: {
		{Name: "id", Label: "Offer ID", Kind: kindText},
		{Name: "fee", Label: "Fee", Kind: kindNumber},
	},
	chia.MethodBulkMintNfts: {
		{Name: "did", Label: "DID", Kind: kindText},
		{Name: "nfts", Label: `NFTs (JSON, [{"dataUris":["..."],"editionNumber":1}])`, Kind: kindJSON},
		{Name: "fee", Label: "Fee", Kind: kindNumber},
	},
}

// FormFields returns the inputs rendered for m, flagged with whether the
// method requires them.
func FormFields(m chia.Method) []FormField {
	d, _ := chia.Lookup(string(m))
	fields := make([]FormField, 0, len(formFields[m]))
	for _, f := range formFields[m] {
		f.Required = d.IsRequired(f.Name)
		fields = append(fields, f)
	}
	return fields
}

// binder turns one submission into a bridge call.
type binder func(ctx *gin.Context, b *rpc.Bridge) (invocation, error)

// bindWith binds P from the submission and calls the typed wrapper with it.
func bindWith[P, R any](fromForm func(form) (P, error), call func(*rpc.Bridge, context.Context, *P) (*R, error)) binder {
	return func(ctx *gin.Context, b *rpc.Bridge) (invocation, error) {
		req, err := bindParams(ctx, fromForm)
		if err != nil {
			return nil, err
		}
		return func(c context.Context) (interface{}, error) {
			return call(b, c, req)
		}, nil
	}
}

var binders = map[chia.Method]binder{
	chia.MethodGetAddress: func(_ *gin.Context, b *rpc.Bridge) (invocation, error) {
		return func(c context.Context) (interface{}, error) {
			return b.GetAddress(c)
		}, nil
	},
	chia.MethodSend:                 bindWith(sendFromForm, (*rpc.Bridge).Send),
	chia.MethodGetNfts:              bindWith(getNftsFromForm, (*rpc.Bridge).GetNfts),
	chia.MethodSignMessageByAddress: bindWith(signMessageFromForm, (*rpc.Bridge).SignMessageByAddress),
	chia.MethodTakeOffer:            bindWith(takeOfferFromForm, (*rpc.Bridge).TakeOffer),
	chia.MethodCreateOffer:          bindWith(createOfferFromForm, (*rpc.Bridge).CreateOffer),
	chia.MethodCancelOffer:          bindWith(cancelOfferFromForm, (*rpc.Bridge).CancelOffer),
	chia.MethodBulkMintNfts:         bindWith(bulkMintFromForm, (*rpc.Bridge).BulkMintNfts),
}

// SplitMemos turns "a, b" into ["a", "b"]. Blank input yields nil so the
// param is left out.
func SplitMemos(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	memos := make([]string, 0, len(parts))
	for _, p := range parts {
		memos = append(memos, strings.TrimSpace(p))
	}
	return memos
}

// form reads url-encoded or multipart fields of a request.
type form struct {
	ctx *gin.Context
}

func (f form) text(name string) string {
	return f.ctx.PostForm(name)
}

func (f form) amount(name string) (chia.Amount, error) {
	a, err := chia.ParseAmount(f.ctx.PostForm(name))
	if err != nil {
		return a, errors.Wrapf(chia.ErrInvalidParams, "%s: %v", name, err)
	}
	return a, nil
}

func (f form) integer(name string) (int, error) {
	s := strings.TrimSpace(f.ctx.PostForm(name))
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, errors.Wrapf(chia.ErrInvalidParams, "%s: %q is not a non-negative integer", name, s)
	}
	return n, nil
}

func (f form) list(name string) []string {
	return SplitMemos(f.ctx.PostForm(name))
}

func (f form) json(name string, v interface{}) error {
	s := strings.TrimSpace(f.ctx.PostForm(name))
	if s == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(s), v); err != nil {
		return errors.Wrapf(chia.ErrInvalidParams, "%s: %v", name, err)
	}
	return nil
}

func sendFromForm(f form) (req chia.SendRequest, err error) {
	req.Address = f.text("address")
	req.AssetID = f.text("assetId")
	req.Memos = f.list("memos")
	if req.Amount, err = f.amount("amount"); err != nil {
		return
	}
	req.Fee, err = f.amount("fee")
	return
}

func getNftsFromForm(f form) (req chia.GetNftsRequest, err error) {
	req.CollectionID = f.text("collectionId")
	if req.Limit, err = f.integer("limit"); err != nil {
		return
	}
	req.Offset, err = f.integer("offset")
	return
}

func signMessageFromForm(f form) (chia.SignMessageByAddressRequest, error) {
	return chia.SignMessageByAddressRequest{
		Message: f.text("message"),
		Address: f.text("address"),
	}, nil
}

func takeOfferFromForm(f form) (req chia.TakeOfferRequest, err error) {
	req.Offer = strings.TrimSpace(f.text("offer"))
	req.Fee, err = f.amount("fee")
	return
}

func createOfferFromForm(f form) (req chia.CreateOfferRequest, err error) {
	if err = f.json("offerAssets", &req.OfferAssets); err != nil {
		return
	}
	if err = f.json("requestAssets", &req.RequestAssets); err != nil {
		return
	}
	req.Fee, err = f.amount("fee")
	return
}

func cancelOfferFromForm(f form) (req chia.CancelOfferRequest, err error) {
	req.ID = strings.TrimSpace(f.text("id"))
	req.Fee, err = f.amount("fee")
	return
}

func bulkMintFromForm(f form) (req chia.BulkMintNftsRequest, err error) {
	req.DID = strings.TrimSpace(f.text("did"))
	if err = f.json("nfts", &req.Nfts); err != nil {
		return
	}
	req.Fee, err = f.amount("fee")
	return
}
