package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"seedling/internal/common"
)

const (
	ServiceName     = "seedling.realtime.v1.Realtime"
	SubscribeMethod = "/" + ServiceName + "/Subscribe"
	TypingMethod    = "/" + ServiceName + "/Typing"
)

// RealtimeServer is the server API of the realtime gRPC service.
type RealtimeServer interface {
	// Subscribe streams the caller's events until the client goes away.
	Subscribe(*emptypb.Empty, grpc.ServerStream) error
	// Typing expects {"to": "<user id>"} and answers {"delivered": bool}.
	Typing(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// ServiceDesc describes the realtime service. Messages are well-known protobuf
// types so no generated code is needed on either side.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*RealtimeServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Typing", Handler: typingHandler},
	},
	Streams: []grpc.StreamDesc{
		{StreamName: "Subscribe", Handler: subscribeHandler, ServerStreams: true},
	},
	Metadata: "seedling/realtime/v1/realtime.proto",
}

func RegisterRealtimeServer(s grpc.ServiceRegistrar, srv RealtimeServer) {
	s.RegisterService(&ServiceDesc, srv)
}

func subscribeHandler(srv interface{}, stream grpc.ServerStream) error {
	in := new(emptypb.Empty)
	if err := stream.RecvMsg(in); err != nil {
		return err
	}
	return srv.(RealtimeServer).Subscribe(in, stream)
}

func typingHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RealtimeServer).Typing(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: TypingMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(RealtimeServer).Typing(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// Service serves subscriptions from the local hub. Identity comes from the
// auth interceptors.
type Service struct {
	hub    *Hub
	typing *TypingRelay
}

func NewService(hub *Hub, typing *TypingRelay) *Service {
	return &Service{hub: hub, typing: typing}
}

func (s *Service) Subscribe(_ *emptypb.Empty, stream grpc.ServerStream) error {
	ctx := stream.Context()
	userID, ok := common.UserIDFromContext(ctx)
	if !ok {
		return status.Error(codes.Unauthenticated, "authentication required")
	}

	sub := s.hub.Subscribe(userID)
	defer s.hub.Unsubscribe(sub)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-sub.Events():
			if !ok {
				return status.Error(codes.Unavailable, "server shutting down")
			}
			msg, err := EventStruct(ev)
			if err != nil {
				log.Warn().Err(err).Str("event", ev.Name).Msg("skipping unencodable event")
				continue
			}
			if err := stream.SendMsg(msg); err != nil {
				return err
			}
		}
	}
}

func (s *Service) Typing(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	userID, ok := common.UserIDFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "authentication required")
	}
	to := req.GetFields()["to"].GetStringValue()

	delivered, err := s.typing.Typing(ctx, userID, to)
	if err != nil {
		return nil, common.ToStatus(err)
	}
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"delivered": structpb.NewBoolValue(delivered),
	}}, nil
}

// EventStruct renders ev as {event, payload, sent_at}.
func EventStruct(ev Event) (*structpb.Struct, error) {
	var payload interface{}
	if len(ev.Payload) > 0 {
		if err := json.Unmarshal(ev.Payload, &payload); err != nil {
			return nil, fmt.Errorf("decode payload: %w", err)
		}
	}
	return structpb.NewStruct(map[string]interface{}{
		"event":   ev.Name,
		"payload": payload,
		"sent_at": ev.SentAt.UTC().Format(time.RFC3339Nano),
	})
}
