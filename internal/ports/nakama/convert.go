package nakama

import (
	"encoding/json"
	"errors"
	"fmt"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"spades/internal/domain"
)

// ErrBadPayload is returned for client messages that cannot be decoded.
var ErrBadPayload = errors.New("malformed payload")

// encodeMessage wraps payload in a {"kind", "payload"} envelope and renders it as
// protojson.
func encodeMessage(kind string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", kind, err)
	}
	body := &structpb.Value{}
	if err := protojson.Unmarshal(raw, body); err != nil {
		return nil, fmt.Errorf("convert %s payload: %w", kind, err)
	}
	envelope := &structpb.Struct{Fields: map[string]*structpb.Value{
		"kind":    structpb.NewStringValue(kind),
		"payload": body,
	}}
	return protojson.Marshal(envelope)
}

// decodeRequest parses a client message body. An empty body is an empty request.
func decodeRequest(data []byte) (*structpb.Struct, error) {
	req := &structpb.Struct{}
	if len(data) == 0 {
		return req, nil
	}
	if err := protojson.Unmarshal(data, req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	return req, nil
}

// decodeAction builds a game action from a bid or play-card message. Bids are
// {"bid": 3}; cards are {"card": "QS"} or {"card": {"suit": "S", "rank": 12}}.
func decodeAction(opCode int64, data []byte) (domain.Action, error) {
	req, err := decodeRequest(data)
	if err != nil {
		return domain.Action{}, err
	}

	switch opCode {
	case OpPlaceBid:
		v, ok := req.GetFields()["bid"]
		if !ok {
			return domain.Action{}, fmt.Errorf("%w: bid is required", ErrBadPayload)
		}
		num, ok := v.GetKind().(*structpb.Value_NumberValue)
		if !ok {
			return domain.Action{}, fmt.Errorf("%w: bid must be a number", ErrBadPayload)
		}
		n := num.NumberValue
		if n != float64(int(n)) {
			return domain.Action{}, fmt.Errorf("%w: bid must be a whole number", ErrBadPayload)
		}
		return domain.Action{Type: domain.ActionPlaceBid, Bid: int(n)}, nil
	case OpPlayCard:
		card, err := cardFromValue(req.GetFields()["card"])
		if err != nil {
			return domain.Action{}, err
		}
		return domain.Action{Type: domain.ActionPlayCard, Card: card}, nil
	default:
		return domain.Action{}, fmt.Errorf("%w: op code %d is not a game action", ErrBadPayload, opCode)
	}
}

func cardFromValue(v *structpb.Value) (domain.Card, error) {
	switch kind := v.GetKind().(type) {
	case *structpb.Value_StringValue:
		card, err := domain.ParseCard(kind.StringValue)
		if err != nil {
			return domain.Card{}, fmt.Errorf("%w: %v", ErrBadPayload, err)
		}
		return card, nil
	case *structpb.Value_StructValue:
		fields := kind.StructValue.GetFields()
		card := domain.Card{
			Suit: domain.Suit(fields["suit"].GetStringValue()),
			Rank: domain.Rank(fields["rank"].GetNumberValue()),
		}
		if !card.Valid() {
			return domain.Card{}, fmt.Errorf("%w: invalid card %v", ErrBadPayload, card)
		}
		return card, nil
	default:
		return domain.Card{}, fmt.Errorf("%w: card is required", ErrBadPayload)
	}
}

// stringList reads a list of strings from field, skipping non-string entries.
func stringList(req *structpb.Struct, field string) []string {
	var out []string
	for _, v := range req.GetFields()[field].GetListValue().GetValues() {
		if s, ok := v.GetKind().(*structpb.Value_StringValue); ok {
			out = append(out, s.StringValue)
		}
	}
	return out
}
