package hospitalv1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const ServiceName = "hospital.v1.AppointmentsService"

const (
	AppointmentsService_CreateAppointment_FullMethodName = "/" + ServiceName + "/CreateAppointment"
	AppointmentsService_UpdateAppointment_FullMethodName = "/" + ServiceName + "/UpdateAppointment"
	AppointmentsService_DeleteAppointment_FullMethodName = "/" + ServiceName + "/DeleteAppointment"
	AppointmentsService_GetAppointment_FullMethodName    = "/" + ServiceName + "/GetAppointment"
	AppointmentsService_ListAppointments_FullMethodName  = "/" + ServiceName + "/ListAppointments"
	AppointmentsService_CheckConflict_FullMethodName     = "/" + ServiceName + "/CheckConflict"
)

type AppointmentsServiceServer interface {
	CreateAppointment(context.Context, *CreateAppointmentRequest) (*CreateAppointmentResponse, error)
	UpdateAppointment(context.Context, *UpdateAppointmentRequest) (*UpdateAppointmentResponse, error)
	DeleteAppointment(context.Context, *DeleteAppointmentRequest) (*DeleteAppointmentResponse, error)
	GetAppointment(context.Context, *GetAppointmentRequest) (*GetAppointmentResponse, error)
	ListAppointments(context.Context, *ListAppointmentsRequest) (*ListAppointmentsResponse, error)
	CheckConflict(context.Context, *CheckConflictRequest) (*CheckConflictResponse, error)
}

// UnimplementedAppointmentsServiceServer can be embedded so that servers keep
// compiling as methods are added.
type UnimplementedAppointmentsServiceServer struct{}

func (UnimplementedAppointmentsServiceServer) CreateAppointment(context.Context, *CreateAppointmentRequest) (*CreateAppointmentResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method CreateAppointment not implemented")
}

func (UnimplementedAppointmentsServiceServer) UpdateAppointment(context.Context, *UpdateAppointmentRequest) (*UpdateAppointmentResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method UpdateAppointment not implemented")
}

func (UnimplementedAppointmentsServiceServer) DeleteAppointment(context.Context, *DeleteAppointmentRequest) (*DeleteAppointmentResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method DeleteAppointment not implemented")
}

func (UnimplementedAppointmentsServiceServer) GetAppointment(context.Context, *GetAppointmentRequest) (*GetAppointmentResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetAppointment not implemented")
}

func (UnimplementedAppointmentsServiceServer) ListAppointments(context.Context, *ListAppointmentsRequest) (*ListAppointmentsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListAppointments not implemented")
}

func (UnimplementedAppointmentsServiceServer) CheckConflict(context.Context, *CheckConflictRequest) (*CheckConflictResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method CheckConflict not implemented")
}

func RegisterAppointmentsServiceServer(s grpc.ServiceRegistrar, srv AppointmentsServiceServer) {
	s.RegisterService(&AppointmentsService_ServiceDesc, srv)
}

// methodHandler matches the Handler field of grpc.MethodDesc.
type methodHandler = func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error)

// unaryHandler builds the MethodDesc handler shared by every RPC; Req and Resp
// are the concrete message types.
func unaryHandler[Req any, Resp any](fullMethod string, call func(AppointmentsServiceServer, context.Context, *Req) (*Resp, error)) methodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(AppointmentsServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(AppointmentsServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var AppointmentsService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AppointmentsServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "CreateAppointment",
			Handler:    unaryHandler(AppointmentsService_CreateAppointment_FullMethodName, AppointmentsServiceServer.CreateAppointment),
		},
		{
			MethodName: "UpdateAppointment",
			Handler:    unaryHandler(AppointmentsService_UpdateAppointment_FullMethodName, AppointmentsServiceServer.UpdateAppointment),
		},
		{
			MethodName: "DeleteAppointment",
			Handler:    unaryHandler(AppointmentsService_DeleteAppointment_FullMethodName, AppointmentsServiceServer.DeleteAppointment),
		},
		{
			MethodName: "GetAppointment",
			Handler:    unaryHandler(AppointmentsService_GetAppointment_FullMethodName, AppointmentsServiceServer.GetAppointment),
		},
		{
			MethodName: "ListAppointments",
			Handler:    unaryHandler(AppointmentsService_ListAppointments_FullMethodName, AppointmentsServiceServer.ListAppointments),
		},
		{
			MethodName: "CheckConflict",
			Handler:    unaryHandler(AppointmentsService_CheckConflict_FullMethodName, AppointmentsServiceServer.CheckConflict),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "hospital/v1/appointments.json",
}

type AppointmentsServiceClient interface {
	CreateAppointment(ctx context.Context, in *CreateAppointmentRequest, opts ...grpc.CallOption) (*CreateAppointmentResponse, error)
	UpdateAppointment(ctx context.Context, in *UpdateAppointmentRequest, opts ...grpc.CallOption) (*UpdateAppointmentResponse, error)
	DeleteAppointment(ctx context.Context, in *DeleteAppointmentRequest, opts ...grpc.CallOption) (*DeleteAppointmentResponse, error)
	GetAppointment(ctx context.Context, in *GetAppointmentRequest, opts ...grpc.CallOption) (*GetAppointmentResponse, error)
	ListAppointments(ctx context.Context, in *ListAppointmentsRequest, opts ...grpc.CallOption) (*ListAppointmentsResponse, error)
	CheckConflict(ctx context.Context, in *CheckConflictRequest, opts ...grpc.CallOption) (*CheckConflictResponse, error)
}

type appointmentsServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewAppointmentsServiceClient(cc grpc.ClientConnInterface) AppointmentsServiceClient {
	return &appointmentsServiceClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *appointmentsServiceClient) CreateAppointment(ctx context.Context, in *CreateAppointmentRequest, opts ...grpc.CallOption) (*CreateAppointmentResponse, error) {
	return invoke[CreateAppointmentResponse](ctx, c.cc, AppointmentsService_CreateAppointment_FullMethodName, in, opts)
}

func (c *appointmentsServiceClient) UpdateAppointment(ctx context.Context, in *UpdateAppointmentRequest, opts ...grpc.CallOption) (*UpdateAppointmentResponse, error) {
	return invoke[UpdateAppointmentResponse](ctx, c.cc, AppointmentsService_UpdateAppointment_FullMethodName, in, opts)
}

func (c *appointmentsServiceClient) DeleteAppointment(ctx context.Context, in *DeleteAppointmentRequest, opts ...grpc.CallOption) (*DeleteAppointmentResponse, error) {
	return invoke[DeleteAppointmentResponse](ctx, c.cc, AppointmentsService_DeleteAppointment_FullMethodName, in, opts)
}

func (c *appointmentsServiceClient) GetAppointment(ctx context.Context, in *GetAppointmentRequest, opts ...grpc.CallOption) (*GetAppointmentResponse, error) {
	return invoke[GetAppointmentResponse](ctx, c.cc, AppointmentsService_GetAppointment_FullMethodName, in, opts)
}

func (c *appointmentsServiceClient) ListAppointments(ctx context.Context, in *ListAppointmentsRequest, opts ...grpc.CallOption) (*ListAppointmentsResponse, error) {
	return invoke[ListAppointmentsResponse](ctx, c.cc, AppointmentsService_ListAppointments_FullMethodName, in, opts)
}

func (c *appointmentsServiceClient) CheckConflict(ctx context.Context, in *CheckConflictRequest, opts ...grpc.CallOption) (*CheckConflictResponse, error) {
	return invoke[CheckConflictResponse](ctx, c.cc, AppointmentsService_CheckConflict_FullMethodName, in, opts)
}
