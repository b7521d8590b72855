package rpc

import (
	"context"

	"moff.io/chia-walletconnect/internal/chia"
)

func (b *Bridge) GetAddress(ctx context.Context) (*chia.GetAddressResult, error) {
	return invoke[chia.GetAddressResult](ctx, b, chia.MethodGetAddress, chia.GetAddressRequest{})
}

func (b *Bridge) Send(ctx context.Context, req *chia.SendRequest) (*chia.SendResult, error) {
	return invoke[chia.SendResult](ctx, b, chia.MethodSend, req)
}

func (b *Bridge) GetNfts(ctx context.Context, req *chia.GetNftsRequest) (*chia.GetNftsResult, error) {
	return invoke[chia.GetNftsResult](ctx, b, chia.MethodGetNfts, req)
}

func (b *Bridge) SignMessageByAddress(ctx context.Context, req *chia.SignMessageByAddressRequest) (*chia.SignMessageByAddressResult, error) {
	return invoke[chia.SignMessageByAddressResult](ctx, b, chia.MethodSignMessageByAddress, req)
}

func (b *Bridge) TakeOffer(ctx context.Context, req *chia.TakeOfferRequest) (*chia.TakeOfferResult, error) {
	return invoke[chia.TakeOfferResult](ctx, b, chia.MethodTakeOffer, req)
}

func (b *Bridge) CreateOffer(ctx context.Context, req *chia.CreateOfferRequest) (*chia.CreateOfferResult, error) {
	return invoke[chia.CreateOfferResult](ctx, b, chia.MethodCreateOffer, req)
}

func (b *Bridge) CancelOffer(ctx context.Context, req *chia.CancelOfferRequest) (*chia.CancelOfferResult, error) {
	return invoke[chia.CancelOfferResult](ctx, b, chia.MethodCancelOffer, req)
}

func (b *Bridge) BulkMintNfts(ctx context.Context, req *chia.BulkMintNftsRequest) (*chia.BulkMintNftsResult, error) {
	return invoke[chia.BulkMintNftsResult](ctx, b, chia.MethodBulkMintNfts, req)
}
