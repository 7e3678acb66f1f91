package entity

import (
	"reflect"
	"testing"
)

func TestInquirySourcesFor(t *testing.T) {
	tests := []struct {
		to   string
		want []string
	}{
		{InquiryStatusReplied, []string{InquiryStatusPending}},
		{InquiryStatusNegotiating, []string{InquiryStatusPending, InquiryStatusReplied}},
		{InquiryStatusClosed, []string{InquiryStatusPending, InquiryStatusReplied, InquiryStatusNegotiating}},
		{InquiryStatusPending, nil},
	}
	for _, tt := range tests {
		if got := InquirySourcesFor(tt.to); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("InquirySourcesFor(%s) = %v, want %v", tt.to, got, tt.want)
		}
	}
	if CanInquiryTransition(InquiryStatusClosed, InquiryStatusPending) {
		t.Errorf("closed inquiries must not reopen")
	}
}
