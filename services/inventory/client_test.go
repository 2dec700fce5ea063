package inventory

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestListRooms(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/rooms", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"roomId":"1","type":"single","pricePerNight":100,"available":true},
			{"roomId":"2","type":"double","pricePerNight":180,"available":false}
		]`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, zap.NewNop())
	rooms, err := c.ListRooms(context.Background())
	require.NoError(t, err)
	require.Len(t, rooms, 2)
	require.Equal(t, "1", rooms[0].ID)
	require.Equal(t, 100.0, rooms[0].PricePerNight)
	require.False(t, rooms[1].Available)
}

func TestListRoomsRetriesTransientFailure(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`[{"roomId":"1","type":"single","pricePerNight":100,"available":true}]`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, zap.NewNop())
	rooms, err := c.ListRooms(context.Background())
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	require.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestListRoomsGivesUpAfterRetries(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, zap.NewNop())
	_, err := c.ListRooms(context.Background())
	require.Error(t, err)
	require.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestCreateBooking(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/book", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req BookingRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "5", req.RoomID)
		require.Equal(t, 3, req.Nights)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"bookingId":"X1","roomId":"5","totalPrice":300}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, zap.NewNop())
	quote, err := c.CreateBooking(context.Background(), BookingRequest{
		RoomID: "5", FullName: "A B", Email: "a@b.com", Nights: 3,
	})
	require.NoError(t, err)
	require.Equal(t, "X1", quote.BookingID)
	require.Equal(t, 300.0, quote.TotalPrice)
}

func TestCreateBookingRejectionIsRemoteError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"message":"room unavailable"}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, zap.NewNop())
	_, err := c.CreateBooking(context.Background(), BookingRequest{
		RoomID: "5", FullName: "A B", Email: "a@b.com", Nights: 3,
	})
	var remote *RemoteError
	require.ErrorAs(t, err, &remote)
	require.Equal(t, http.StatusConflict, remote.StatusCode)
	require.Equal(t, "room unavailable", remote.Message)
}

func TestCreateBookingIsNeverRetried(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, zap.NewNop())
	_, err := c.CreateBooking(context.Background(), BookingRequest{
		RoomID: "5", FullName: "A B", Email: "a@b.com", Nights: 3,
	})
	require.Error(t, err)
	require.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestCreateBookingRejectsMissingID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"totalPrice":300}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, zap.NewNop())
	_, err := c.CreateBooking(context.Background(), BookingRequest{
		RoomID: "5", FullName: "A B", Email: "a@b.com", Nights: 3,
	})
	require.ErrorContains(t, err, "bookingId")
}

func TestCancelBookingToleratesNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		require.Equal(t, "/book/X1", r.URL.Path)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, zap.NewNop())
	require.NoError(t, c.CancelBooking(context.Background(), "X1"))
}

func TestCancelBookingSurfacesServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, zap.NewNop())
	err := c.CancelBooking(context.Background(), "X1")
	var remote *RemoteError
	require.ErrorAs(t, err, &remote)
	require.Equal(t, http.StatusInternalServerError, remote.StatusCode)
}
