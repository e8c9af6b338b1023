package timetablev1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	ServiceName = "timetable.v1.TimetableService"

	TimetableService_ProposeSchedule_FullMethodName  = "/timetable.v1.TimetableService/ProposeSchedule"
	TimetableService_RemoveSchedule_FullMethodName   = "/timetable.v1.TimetableService/RemoveSchedule"
	TimetableService_UndoCreate_FullMethodName       = "/timetable.v1.TimetableService/UndoCreate"
	TimetableService_PreviewConflicts_FullMethodName = "/timetable.v1.TimetableService/PreviewConflicts"
	TimetableService_ListSchedules_FullMethodName    = "/timetable.v1.TimetableService/ListSchedules"
)

type TimetableServiceServer interface {
	ProposeSchedule(context.Context, *ProposeScheduleRequest) (*ProposeScheduleResponse, error)
	RemoveSchedule(context.Context, *RemoveScheduleRequest) (*RemoveScheduleResponse, error)
	UndoCreate(context.Context, *UndoCreateRequest) (*UndoCreateResponse, error)
	PreviewConflicts(context.Context, *PreviewConflictsRequest) (*PreviewConflictsResponse, error)
	ListSchedules(context.Context, *ListSchedulesRequest) (*ListSchedulesResponse, error)
}

// UnimplementedTimetableServiceServer встраивается в реализацию, чтобы новые RPC не ломали сборку.
type UnimplementedTimetableServiceServer struct{}

func (UnimplementedTimetableServiceServer) ProposeSchedule(context.Context, *ProposeScheduleRequest) (*ProposeScheduleResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ProposeSchedule not implemented")
}
func (UnimplementedTimetableServiceServer) RemoveSchedule(context.Context, *RemoveScheduleRequest) (*RemoveScheduleResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method RemoveSchedule not implemented")
}
func (UnimplementedTimetableServiceServer) UndoCreate(context.Context, *UndoCreateRequest) (*UndoCreateResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method UndoCreate not implemented")
}
func (UnimplementedTimetableServiceServer) PreviewConflicts(context.Context, *PreviewConflictsRequest) (*PreviewConflictsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method PreviewConflicts not implemented")
}
func (UnimplementedTimetableServiceServer) ListSchedules(context.Context, *ListSchedulesRequest) (*ListSchedulesResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListSchedules not implemented")
}

func RegisterTimetableServiceServer(s grpc.ServiceRegistrar, srv TimetableServiceServer) {
	s.RegisterService(&TimetableService_ServiceDesc, srv)
}

func _TimetableService_ProposeSchedule_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(ProposeScheduleRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(TimetableServiceServer).ProposeSchedule(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: TimetableService_ProposeSchedule_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(TimetableServiceServer).ProposeSchedule(ctx, req.(*ProposeScheduleRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _TimetableService_RemoveSchedule_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(RemoveScheduleRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(TimetableServiceServer).RemoveSchedule(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: TimetableService_RemoveSchedule_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(TimetableServiceServer).RemoveSchedule(ctx, req.(*RemoveScheduleRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _TimetableService_UndoCreate_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(UndoCreateRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(TimetableServiceServer).UndoCreate(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: TimetableService_UndoCreate_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(TimetableServiceServer).UndoCreate(ctx, req.(*UndoCreateRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _TimetableService_PreviewConflicts_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(PreviewConflictsRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(TimetableServiceServer).PreviewConflicts(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: TimetableService_PreviewConflicts_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(TimetableServiceServer).PreviewConflicts(ctx, req.(*PreviewConflictsRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _TimetableService_ListSchedules_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(ListSchedulesRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(TimetableServiceServer).ListSchedules(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: TimetableService_ListSchedules_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(TimetableServiceServer).ListSchedules(ctx, req.(*ListSchedulesRequest))
	}
	return interceptor(ctx, in, info, handler)
}

var TimetableService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*TimetableServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "ProposeSchedule", Handler: _TimetableService_ProposeSchedule_Handler},
		{MethodName: "RemoveSchedule", Handler: _TimetableService_RemoveSchedule_Handler},
		{MethodName: "UndoCreate", Handler: _TimetableService_UndoCreate_Handler},
		{MethodName: "PreviewConflicts", Handler: _TimetableService_PreviewConflicts_Handler},
		{MethodName: "ListSchedules", Handler: _TimetableService_ListSchedules_Handler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "timetable/v1/timetable.json",
}

type TimetableServiceClient interface {
	ProposeSchedule(ctx context.Context, in *ProposeScheduleRequest, opts ...grpc.CallOption) (*ProposeScheduleResponse, error)
	RemoveSchedule(ctx context.Context, in *RemoveScheduleRequest, opts ...grpc.CallOption) (*RemoveScheduleResponse, error)
	UndoCreate(ctx context.Context, in *UndoCreateRequest, opts ...grpc.CallOption) (*UndoCreateResponse, error)
	PreviewConflicts(ctx context.Context, in *PreviewConflictsRequest, opts ...grpc.CallOption) (*PreviewConflictsResponse, error)
	ListSchedules(ctx context.Context, in *ListSchedulesRequest, opts ...grpc.CallOption) (*ListSchedulesResponse, error)
}

type timetableServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewTimetableServiceClient(cc grpc.ClientConnInterface) TimetableServiceClient {
	return &timetableServiceClient{cc: cc}
}

func (c *timetableServiceClient) invoke(ctx context.Context, method string, in, out any, opts []grpc.CallOption) error {
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	return c.cc.Invoke(ctx, method, in, out, opts...)
}

func (c *timetableServiceClient) ProposeSchedule(ctx context.Context, in *ProposeScheduleRequest, opts ...grpc.CallOption) (*ProposeScheduleResponse, error) {
	out := new(ProposeScheduleResponse)
	if err := c.invoke(ctx, TimetableService_ProposeSchedule_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *timetableServiceClient) RemoveSchedule(ctx context.Context, in *RemoveScheduleRequest, opts ...grpc.CallOption) (*RemoveScheduleResponse, error) {
	out := new(RemoveScheduleResponse)
	if err := c.invoke(ctx, TimetableService_RemoveSchedule_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *timetableServiceClient) UndoCreate(ctx context.Context, in *UndoCreateRequest, opts ...grpc.CallOption) (*UndoCreateResponse, error) {
	out := new(UndoCreateResponse)
	if err := c.invoke(ctx, TimetableService_UndoCreate_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *timetableServiceClient) PreviewConflicts(ctx context.Context, in *PreviewConflictsRequest, opts ...grpc.CallOption) (*PreviewConflictsResponse, error) {
	out := new(PreviewConflictsResponse)
	if err := c.invoke(ctx, TimetableService_PreviewConflicts_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *timetableServiceClient) ListSchedules(ctx context.Context, in *ListSchedulesRequest, opts ...grpc.CallOption) (*ListSchedulesResponse, error) {
	out := new(ListSchedulesResponse)
	if err := c.invoke(ctx, TimetableService_ListSchedules_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}
