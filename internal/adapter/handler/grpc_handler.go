package handler

import (
	"context"
	"math"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/rl1809/shoe-cart/internal/core/domain"
	"github.com/rl1809/shoe-cart/internal/core/service"
)

const cartServiceName = "cart.v1.CartService"

// CartServiceServer is the gRPC surface of the cart. Requests and responses
// are google.protobuf.Struct values:
//
//	AddProduct, RemoveProduct: {"product_id": 1}
//	UpdateProductAmount:       {"product_id": 1, "amount": 3}
//	responses:                 {"success": true, "message": "", "cart": [...], "total": "179.90"}
type CartServiceServer interface {
	GetCart(context.Context, *structpb.Struct) (*structpb.Struct, error)
	AddProduct(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RemoveProduct(context.Context, *structpb.Struct) (*structpb.Struct, error)
	UpdateProductAmount(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

var CartServiceDesc = grpc.ServiceDesc{
	ServiceName: cartServiceName,
	HandlerType: (*CartServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryMethod("GetCart", CartServiceServer.GetCart),
		unaryMethod("AddProduct", CartServiceServer.AddProduct),
		unaryMethod("RemoveProduct", CartServiceServer.RemoveProduct),
		unaryMethod("UpdateProductAmount", CartServiceServer.UpdateProductAmount),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "cart/v1/cart.proto",
}

func RegisterCartServiceServer(s grpc.ServiceRegistrar, srv CartServiceServer) {
	s.RegisterService(&CartServiceDesc, srv)
}

func unaryMethod(name string, call func(CartServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(CartServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: "/" + cartServiceName + "/" + name,
			}
			handler := func(ctx context.Context, req interface{}) (interface{}, error) {
				return call(srv.(CartServiceServer), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

type GRPCHandler struct {
	cartStore *service.CartStore
}

func NewGRPCHandler(cartStore *service.CartStore) *GRPCHandler {
	return &GRPCHandler{cartStore: cartStore}
}

func (h *GRPCHandler) GetCart(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return h.cartResponse(nil)
}

func (h *GRPCHandler) AddProduct(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	productID, err := intField(req, "product_id")
	if err != nil {
		return nil, err
	}

	return h.cartResponse(h.cartStore.AddProduct(ctx, productID))
}

func (h *GRPCHandler) RemoveProduct(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	productID, err := intField(req, "product_id")
	if err != nil {
		return nil, err
	}

	return h.cartResponse(h.cartStore.RemoveProduct(ctx, productID))
}

func (h *GRPCHandler) UpdateProductAmount(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	productID, err := intField(req, "product_id")
	if err != nil {
		return nil, err
	}
	amount, err := intField(req, "amount")
	if err != nil {
		return nil, err
	}

	return h.cartResponse(h.cartStore.UpdateProductAmount(ctx, service.UpdateProductAmount{
		ProductID: productID,
		Amount:    amount,
	}))
}

// cartResponse reports operation failures in the payload, not as gRPC errors.
func (h *GRPCHandler) cartResponse(opErr error) (*structpb.Struct, error) {
	cart := h.cartStore.GetCart()

	resp, err := structpb.NewStruct(map[string]interface{}{
		"success": opErr == nil,
		"message": service.UserMessage(opErr),
		"cart":    cartValues(cart),
		"total":   cart.Total().StringFixed(2),
	})
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode cart: %v", err)
	}
	return resp, nil
}

func cartValues(cart domain.Cart) []interface{} {
	items := make([]interface{}, 0, len(cart))
	for _, item := range cart {
		items = append(items, map[string]interface{}{
			"id":     item.ID,
			"title":  item.Title,
			"price":  item.Price.String(),
			"image":  item.Image,
			"amount": item.Amount,
		})
	}
	return items
}

func intField(req *structpb.Struct, name string) (int, error) {
	v, ok := req.GetFields()[name]
	if !ok {
		return 0, status.Errorf(codes.InvalidArgument, "missing field %q", name)
	}
	n, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok || n.NumberValue != math.Trunc(n.NumberValue) {
		return 0, status.Errorf(codes.InvalidArgument, "field %q must be an integer", name)
	}
	if n.NumberValue > math.MaxInt32 || n.NumberValue < math.MinInt32 {
		return 0, status.Errorf(codes.InvalidArgument, "field %q out of range", name)
	}
	return int(n.NumberValue), nil
}

// CartServiceClient calls a CartServiceServer over a client connection.
type CartServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewCartServiceClient(cc grpc.ClientConnInterface) *CartServiceClient {
	return &CartServiceClient{cc: cc}
}

func (c *CartServiceClient) Call(ctx context.Context, method string, req map[string]interface{}) (*structpb.Struct, error) {
	in, err := structpb.NewStruct(req)
	if err != nil {
		return nil, err
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+cartServiceName+"/"+method, in, out); err != nil {
		return nil, err
	}
	return out, nil
}
