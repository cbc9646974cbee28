package feast

import (
	"context"
	"errors"
	"testing"
)

// fakeClient 记录请求并返回预置响应。
type fakeClient struct {
	lastReq *GetOnlineFeaturesRequest
	resp    *GetOnlineFeaturesResponse
	err     error
}

func (f *fakeClient) GetOnlineFeatures(_ context.Context, req *GetOnlineFeaturesRequest) (*GetOnlineFeaturesResponse, error) {
	f.lastReq = req
	return f.resp, f.err
}

func (f *fakeClient) Close() error { return nil }

func TestInterestSource_Interests(t *testing.T) {
	client := &fakeClient{
		resp: &GetOnlineFeaturesResponse{
			FeatureVectors: []FeatureVector{{
				Values: map[string]interface{}{
					DefaultCategoryFeature: "3,7",
					DefaultTagFeature:      "12, 15",
				},
			}},
		},
	}

	src := &InterestSource{Client: client}
	cats, tags, err := src.Interests(context.Background(), 42)
	if err != nil {
		t.Fatalf("Interests() error = %v", err)
	}

	if len(cats) != 2 || cats[0] != 3 || cats[1] != 7 {
		t.Errorf("categories = %v, want [3 7]", cats)
	}
	if len(tags) != 2 || tags[0] != 12 || tags[1] != 15 {
		t.Errorf("tags = %v, want [12 15]", tags)
	}

	// 默认实体名/特征名
	req := client.lastReq
	if len(req.EntityRows) != 1 {
		t.Fatalf("entity rows = %d, want 1", len(req.EntityRows))
	}
	if got := req.EntityRows[0][DefaultEntityName]; got != int64(42) {
		t.Errorf("entity %s = %v, want 42", DefaultEntityName, got)
	}
	if len(req.Features) != 2 {
		t.Errorf("features = %v, want two defaults", req.Features)
	}
}

func TestInterestSource_ClientError(t *testing.T) {
	wantErr := errors.New("feast unavailable")
	src := &InterestSource{Client: &fakeClient{err: wantErr}}

	_, _, err := src.Interests(context.Background(), 42)
	if !errors.Is(err, wantErr) {
		t.Errorf("Interests() error = %v, want %v", err, wantErr)
	}
}

func TestInterestSource_EmptyResponse(t *testing.T) {
	src := &InterestSource{Client: &fakeClient{resp: &GetOnlineFeaturesResponse{}}}

	cats, tags, err := src.Interests(context.Background(), 42)
	if err != nil {
		t.Fatalf("Interests() error = %v", err)
	}
	if len(cats) != 0 || len(tags) != 0 {
		t.Errorf("empty response produced (%v, %v), want empty", cats, tags)
	}
}

func TestParseIDList(t *testing.T) {
	tests := []struct {
		name string
		in   interface{}
		want []int64
	}{
		{name: "plain list", in: "1,2,3", want: []int64{1, 2, 3}},
		{name: "spaces tolerated", in: " 4 , 5 ", want: []int64{4, 5}},
		{name: "dirty entries skipped", in: "1,x,3", want: []int64{1, 3}},
		{name: "empty string", in: "", want: nil},
		{name: "non-string", in: 42, want: nil},
		{name: "nil", in: nil, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseIDList(tt.in)
			if len(got) != len(tt.want) {
				t.Fatalf("parseIDList(%v) = %v, want %v", tt.in, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("parseIDList(%v) = %v, want %v", tt.in, got, tt.want)
				}
			}
		})
	}
}
