package http

import (
	"encoding/json"

	"github.com/meetpoint/meetpoint-server/internal/core"
	"github.com/meetpoint/meetpoint-server/internal/proto"
)

func inboundToCommand(inbound proto.Inbound) (*core.Command, *proto.Error, error) {
	switch inbound.Type {
	case proto.InboundTypeJoinRoomRequest:
		var data proto.JoinRoomRequestData
		if err := json.Unmarshal(inbound.Data, &data); err != nil {
			return nil, nil, err
		}
		if data.RoomID == "" {
			return nil, &proto.Error{Code: core.ErrCodeInvalidRequest, Msg: "roomId is required"}, nil
		}
		return &core.Command{Kind: core.CommandJoinRoomRequest, Room: data.RoomID}, nil, nil

	case proto.InboundTypeApproveUser:
		var data proto.ApproveUserData
		if err := json.Unmarshal(inbound.Data, &data); err != nil {
			return nil, nil, err
		}
		if data.RoomID == "" || data.UserID == "" {
			return nil, &proto.Error{Code: core.ErrCodeInvalidRequest, Msg: "roomId and userId are required"}, nil
		}
		return &core.Command{
			Kind:           core.CommandApproveUser,
			Room:           data.RoomID,
			TargetUserID:   data.UserID,
			TargetUsername: data.Username,
		}, nil, nil

	case proto.InboundTypeRejectUser:
		var data proto.RejectUserData
		if err := json.Unmarshal(inbound.Data, &data); err != nil {
			return nil, nil, err
		}
		if data.UserID == "" {
			return nil, &proto.Error{Code: core.ErrCodeInvalidRequest, Msg: "userId is required"}, nil
		}
		return &core.Command{Kind: core.CommandRejectUser, TargetUserID: data.UserID}, nil, nil

	case proto.InboundTypeOffer:
		var data proto.OfferData
		if err := json.Unmarshal(inbound.Data, &data); err != nil {
			return nil, nil, err
		}
		if data.UserID == "" {
			return nil, &proto.Error{Code: core.ErrCodeInvalidRequest, Msg: "userId is required"}, nil
		}
		return &core.Command{
			Kind:         core.CommandOffer,
			TargetUserID: data.UserID,
			Payload:      data.Offer,
		}, nil, nil

	case proto.InboundTypeAnswer:
		var data proto.AnswerData
		if err := json.Unmarshal(inbound.Data, &data); err != nil {
			return nil, nil, err
		}
		return &core.Command{
			Kind:         core.CommandAnswer,
			TargetConnID: data.SenderConnID,
			Payload:      data.Answer,
		}, nil, nil

	case proto.InboundTypeICECandidate:
		var data proto.ICECandidateData
		if err := json.Unmarshal(inbound.Data, &data); err != nil {
			return nil, nil, err
		}
		return &core.Command{
			Kind:         core.CommandICECandidate,
			TargetConnID: data.TargetConnID,
			Payload:      data.Candidate,
		}, nil, nil

	case proto.InboundTypeLeaveRoom:
		var data proto.LeaveRoomData
		if err := json.Unmarshal(inbound.Data, &data); err != nil {
			return nil, nil, err
		}
		if data.RoomID == "" {
			return nil, &proto.Error{Code: core.ErrCodeInvalidRequest, Msg: "roomId is required"}, nil
		}
		return &core.Command{Kind: core.CommandLeaveRoom, Room: data.RoomID}, nil, nil

	case proto.InboundTypeJoinChannel:
		var data proto.ChannelData
		if err := json.Unmarshal(inbound.Data, &data); err != nil {
			return nil, nil, err
		}
		if data.RoomID == "" {
			return nil, &proto.Error{Code: core.ErrCodeInvalidRequest, Msg: "roomId is required"}, nil
		}
		return &core.Command{Kind: core.CommandJoinChannel, Room: data.RoomID}, nil, nil

	case proto.InboundTypeTyping, proto.InboundTypeStopTyping:
		var data proto.ChannelData
		if err := json.Unmarshal(inbound.Data, &data); err != nil {
			return nil, nil, err
		}
		kind := core.CommandTyping
		if inbound.Type == proto.InboundTypeStopTyping {
			kind = core.CommandStopTyping
		}
		return &core.Command{Kind: kind, Room: data.RoomID}, nil, nil

	default:
		return nil, &proto.Error{Code: core.ErrCodeInvalidRequest, Msg: "unknown message type"}, nil
	}
}

func outboundFromEvent(event *core.Event) proto.Outbound {
	switch event.Kind {
	case core.EventJoinApproved:
		return outboundEvent(proto.EventJoinApproved, proto.JoinApprovedData{RoomID: event.Room})
	case core.EventJoinRejected:
		return outboundEvent(proto.EventJoinRejected, proto.JoinRejectedData{Message: event.Reason})
	case core.EventJoinRequest:
		return outboundEvent(proto.EventJoinRequest, proto.JoinRequestData{
			RoomID:   event.Room,
			UserID:   event.UserID,
			Username: event.User,
		})
	case core.EventUserJoined:
		return outboundEvent(proto.EventUserJoined, proto.UserJoinedData{
			Username: event.User,
			UserID:   event.UserID,
		})
	case core.EventUserLeave:
		return outboundEvent(proto.EventUserLeave, proto.UserLeaveData{Username: event.User})
	case core.EventAdminLeave:
		return outboundEvent(proto.EventAdminLeave, proto.UserLeaveData{Username: event.User})
	case core.EventOffer:
		return outboundEvent(proto.EventOffer, proto.SignalData{
			Payload:      event.Payload,
			SenderConnID: event.FromConnID,
		})
	case core.EventAnswer:
		return outboundEvent(proto.EventAnswer, proto.SignalData{
			Payload:      event.Payload,
			SenderConnID: event.FromConnID,
		})
	case core.EventICECandidate:
		return outboundEvent(proto.EventICECandidate, proto.SignalData{
			Payload:      event.Payload,
			SenderConnID: event.FromConnID,
		})
	case core.EventTyping:
		return outboundEvent(proto.EventTyping, proto.TypingData{RoomID: event.Room, Username: event.User})
	case core.EventStopTyping:
		return outboundEvent(proto.EventStopTyping, proto.TypingData{RoomID: event.Room, Username: event.User})
	case core.EventError:
		if event.Error == nil {
			return proto.Outbound{Type: "error", Error: &proto.Error{Code: core.ErrCodeInternal, Msg: "unknown error"}}
		}
		return proto.Outbound{
			Type:  "error",
			Error: &proto.Error{Code: event.Error.Code, Msg: event.Error.Message},
		}
	default:
		return proto.Outbound{Type: "event"}
	}
}

func outboundEvent(name string, data any) proto.Outbound {
	return proto.Outbound{Type: "event", Event: name, Data: data}
}
