package game

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	// GameServiceName is the fully qualified gRPC name of the player API.
	GameServiceName = "nightbus.game.v1.GameService"
	// AdminServiceName is the fully qualified gRPC name of the admin API.
	AdminServiceName = "nightbus.game.v1.AdminService"
)

// Full method names.
const (
	MethodEnterGame            = "/" + GameServiceName + "/EnterGame"
	MethodStartGame            = "/" + GameServiceName + "/StartGame"
	MethodResumeGame           = "/" + GameServiceName + "/ResumeGame"
	MethodGetGameState         = "/" + GameServiceName + "/GetGameState"
	MethodMakeChoice           = "/" + GameServiceName + "/MakeChoice"
	MethodQuitGame             = "/" + GameServiceName + "/QuitGame"
	MethodKillCharacter        = "/" + GameServiceName + "/KillCharacter"
	MethodCleanupStaleSessions = "/" + AdminServiceName + "/CleanupStaleSessions"
	MethodListAnalyticsEvents  = "/" + AdminServiceName + "/ListAnalyticsEvents"
)

// GameServiceServer is the server API for GameService.
type GameServiceServer interface {
	EnterGame(context.Context, *structpb.Struct) (*structpb.Struct, error)
	StartGame(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ResumeGame(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetGameState(context.Context, *structpb.Struct) (*structpb.Struct, error)
	MakeChoice(context.Context, *structpb.Struct) (*structpb.Struct, error)
	QuitGame(context.Context, *structpb.Struct) (*structpb.Struct, error)
	KillCharacter(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// AdminServiceServer is the server API for AdminService.
type AdminServiceServer interface {
	CleanupStaleSessions(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListAnalyticsEvents(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type structCall func(srv any, ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(fullMethod string, call structCall) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv, ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv, ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// GameServiceDesc describes GameService for grpc.Server.RegisterService.
var GameServiceDesc = grpc.ServiceDesc{
	ServiceName: GameServiceName,
	HandlerType: (*GameServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "EnterGame", Handler: unaryHandler(MethodEnterGame, func(srv any, ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
			return srv.(GameServiceServer).EnterGame(ctx, in)
		})},
		{MethodName: "StartGame", Handler: unaryHandler(MethodStartGame, func(srv any, ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
			return srv.(GameServiceServer).StartGame(ctx, in)
		})},
		{MethodName: "ResumeGame", Handler: unaryHandler(MethodResumeGame, func(srv any, ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
			return srv.(GameServiceServer).ResumeGame(ctx, in)
		})},
		{MethodName: "GetGameState", Handler: unaryHandler(MethodGetGameState, func(srv any, ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
			return srv.(GameServiceServer).GetGameState(ctx, in)
		})},
		{MethodName: "MakeChoice", Handler: unaryHandler(MethodMakeChoice, func(srv any, ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
			return srv.(GameServiceServer).MakeChoice(ctx, in)
		})},
		{MethodName: "QuitGame", Handler: unaryHandler(MethodQuitGame, func(srv any, ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
			return srv.(GameServiceServer).QuitGame(ctx, in)
		})},
		{MethodName: "KillCharacter", Handler: unaryHandler(MethodKillCharacter, func(srv any, ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
			return srv.(GameServiceServer).KillCharacter(ctx, in)
		})},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "nightbus/game/v1/game.proto",
}

// AdminServiceDesc describes AdminService for grpc.Server.RegisterService.
var AdminServiceDesc = grpc.ServiceDesc{
	ServiceName: AdminServiceName,
	HandlerType: (*AdminServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "CleanupStaleSessions", Handler: unaryHandler(MethodCleanupStaleSessions, func(srv any, ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
			return srv.(AdminServiceServer).CleanupStaleSessions(ctx, in)
		})},
		{MethodName: "ListAnalyticsEvents", Handler: unaryHandler(MethodListAnalyticsEvents, func(srv any, ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
			return srv.(AdminServiceServer).ListAnalyticsEvents(ctx, in)
		})},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "nightbus/game/v1/admin.proto",
}

// RegisterGameServiceServer registers srv on s.
func RegisterGameServiceServer(s grpc.ServiceRegistrar, srv GameServiceServer) {
	s.RegisterService(&GameServiceDesc, srv)
}

// RegisterAdminServiceServer registers srv on s.
func RegisterAdminServiceServer(s grpc.ServiceRegistrar, srv AdminServiceServer) {
	s.RegisterService(&AdminServiceDesc, srv)
}
