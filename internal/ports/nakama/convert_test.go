package nakama

import (
	"encoding/json"
	"errors"
	"testing"

	"spades/internal/app"
	"spades/internal/domain"
)

func TestDecodeAction(t *testing.T) {
	tests := []struct {
		name    string
		opCode  int64
		data    string
		want    domain.Action
		wantErr bool
	}{
		{
			name:   "Bid",
			opCode: OpPlaceBid,
			data:   `{"bid":4}`,
			want:   domain.Action{Type: domain.ActionPlaceBid, Bid: 4},
		},
		{
			name:   "NilBid",
			opCode: OpPlaceBid,
			data:   `{"bid":0}`,
			want:   domain.Action{Type: domain.ActionPlaceBid, Bid: 0},
		},
		{
			name:    "FractionalBid",
			opCode:  OpPlaceBid,
			data:    `{"bid":2.5}`,
			wantErr: true,
		},
		{
			name:    "StringBid",
			opCode:  OpPlaceBid,
			data:    `{"bid":"5"}`,
			wantErr: true,
		},
		{
			name:    "NullBid",
			opCode:  OpPlaceBid,
			data:    `{"bid":null}`,
			wantErr: true,
		},
		{
			name:    "BoolBid",
			opCode:  OpPlaceBid,
			data:    `{"bid":true}`,
			wantErr: true,
		},
		{
			name:    "ListBid",
			opCode:  OpPlaceBid,
			data:    `{"bid":[7]}`,
			wantErr: true,
		},
		{
			name:    "MissingBid",
			opCode:  OpPlaceBid,
			data:    `{}`,
			wantErr: true,
		},
		{
			name:   "CardString",
			opCode: OpPlayCard,
			data:   `{"card":"QS"}`,
			want:   domain.Action{Type: domain.ActionPlayCard, Card: domain.Card{Suit: domain.SuitSpades, Rank: domain.RankQueen}},
		},
		{
			name:   "CardObject",
			opCode: OpPlayCard,
			data:   `{"card":{"suit":"H","rank":10}}`,
			want:   domain.Action{Type: domain.ActionPlayCard, Card: domain.Card{Suit: domain.SuitHearts, Rank: domain.RankTen}},
		},
		{
			name:    "InvalidCard",
			opCode:  OpPlayCard,
			data:    `{"card":{"suit":"X","rank":10}}`,
			wantErr: true,
		},
		{
			name:    "MalformedJSON",
			opCode:  OpPlayCard,
			data:    `{"card":`,
			wantErr: true,
		},
		{
			name:    "NotAnAction",
			opCode:  OpStartGame,
			data:    `{}`,
			wantErr: true,
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			got, err := decodeAction(test.opCode, []byte(test.data))
			if test.wantErr {
				if !errors.Is(err, ErrBadPayload) {
					t.Fatalf("decodeAction() error = %v, want ErrBadPayload", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("decodeAction() error = %v", err)
			}
			if got != test.want {
				t.Fatalf("decodeAction() = %+v, want %+v", got, test.want)
			}
		})
	}
}

func TestEncodeMessage(t *testing.T) {
	data, err := encodeMessage(string(app.EventBidRecorded), app.BidRecordedPayload{UserID: "user-1", Bid: 3})
	if err != nil {
		t.Fatalf("encodeMessage() error = %v", err)
	}

	var env struct {
		Kind    string                 `json:"kind"`
		Payload map[string]interface{} `json:"payload"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		t.Fatalf("Failed to decode %s: %v", data, err)
	}
	if env.Kind != "bid_recorded" {
		t.Fatalf("kind = %q, want bid_recorded", env.Kind)
	}
	if env.Payload["user_id"] != "user-1" || env.Payload["bid"] != float64(3) {
		t.Fatalf("payload = %v", env.Payload)
	}
}

func TestStringList(t *testing.T) {
	req, err := decodeRequest([]byte(`{"turn_order":["a",1,"b"]}`))
	if err != nil {
		t.Fatalf("decodeRequest() error = %v", err)
	}
	got := stringList(req, "turn_order")
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("stringList() = %v, want [a b]", got)
	}
	if got := stringList(req, "missing"); got != nil {
		t.Fatalf("stringList(missing) = %v, want nil", got)
	}
}
