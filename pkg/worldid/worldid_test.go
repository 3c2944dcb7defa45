package worldid

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/suite"
)

type ClientSuite struct {
	suite.Suite
}

func TestClientSuite(t *testing.T) {
	suite.Run(t, new(ClientSuite))
}

func (s *ClientSuite) client(handler http.HandlerFunc) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	c := NewClient("app_test")
	c.Endpoint = srv.URL
	return c, srv
}

func (s *ClientSuite) payload() Payload {
	return Payload{
		NullifierHash:     "0xabc",
		MerkleRoot:        "0xdef",
		Proof:             "0x123",
		VerificationLevel: "orb",
	}
}

func (s *ClientSuite) TestVerifyAccepted() {
	var gotPath string
	var gotBody map[string]interface{}
	c, srv := s.client(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		s.NoError(jsoniter.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"success":true,"action":"worldguard-verification"}`))
	})
	defer srv.Close()

	res, err := c.Verify(context.Background(), s.payload(), "worldguard-verification", "7_100")
	s.Require().NoError(err)
	s.True(res.Success)

	s.Equal("/api/v2/verify/app_test", gotPath)
	s.Equal("0xabc", gotBody["nullifier_hash"])
	s.Equal("worldguard-verification", gotBody["action"])
	s.Equal("7_100", gotBody["signal"])
}

func (s *ClientSuite) TestVerifyRejected() {
	c, srv := s.client(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"code":"max_verifications_reached","detail":"This person has already verified for this action."}`))
	})
	defer srv.Close()

	res, err := c.Verify(context.Background(), s.payload(), "worldguard-verification", "7_100")
	s.Require().NoError(err, "a rejected proof is a verdict, not a transport failure")
	s.False(res.Success)
	s.Equal("max_verifications_reached", res.Code)
	s.NotEmpty(res.Detail)
}

func (s *ClientSuite) TestVerifyServerError() {
	c, srv := s.client(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	defer srv.Close()

	_, err := c.Verify(context.Background(), s.payload(), "worldguard-verification", "7_100")
	s.Error(err)
}

func (s *ClientSuite) TestVerifyTransportError() {
	c, srv := s.client(func(w http.ResponseWriter, r *http.Request) {})
	srv.Close()

	_, err := c.Verify(context.Background(), s.payload(), "worldguard-verification", "7_100")
	s.Error(err)
}
