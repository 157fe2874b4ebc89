package acceptance

import (
	"bytes"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/vibelink/hangout-service/internal/dto"
)

func (s *Suite) TestCreatePost_CreatorBecomesHost() {
	_, token := s.registerUser("host1")

	post := s.createPost(token, 4)
	s.Equal("open", post.Status)

	full := s.getPost(token, post.ID)
	s.Require().Len(full.Participants, 1)
	s.Equal("host", full.Participants[0].Role)
}

func (s *Suite) TestCreatePost_InvalidActivityType() {
	_, token := s.registerUser("host2")

	resp := s.doJSON(http.MethodPost, "/api/v1/posts", token, map[string]any{
		"title":            "Mystery",
		"activity_type":    "skydiving",
		"city":             "Berlin",
		"scheduled_at":     "2030-01-01T18:00:00Z",
		"max_participants": 4,
	}, nil)

	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *Suite) TestFeed_ListsOpenUpcomingPosts() {
	_, token := s.registerUser("host3")
	post := s.createPost(token, 4)

	var feed []dto.PostResponse
	resp := s.doJSON(http.MethodGet, "/api/v1/posts/feed?city=Berlin", token, nil, &feed)

	s.Equal(http.StatusOK, resp.StatusCode)
	s.Require().Len(feed, 1)
	s.Equal(post.ID, feed[0].ID)
}

func (s *Suite) TestFeed_RequiresCity() {
	_, token := s.registerUser("host4")

	resp := s.doJSON(http.MethodGet, "/api/v1/posts/feed", token, nil, nil)
	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *Suite) TestFeed_ExcludesCancelledPosts() {
	_, token := s.registerUser("host5")
	post := s.createPost(token, 4)

	resp := s.doJSON(http.MethodDelete, "/api/v1/posts/"+post.ID, token, nil, nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var feed []dto.PostResponse
	resp = s.doJSON(http.MethodGet, "/api/v1/posts/feed?city=Berlin", token, nil, &feed)
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Empty(feed)
}

func (s *Suite) TestUpdatePost_OnlyCreator() {
	_, hostToken := s.registerUser("host6")
	_, otherToken := s.registerUser("other6")
	post := s.createPost(hostToken, 4)

	resp := s.doJSON(http.MethodPatch, "/api/v1/posts/"+post.ID, otherToken, map[string]any{
		"title": "Hijacked",
	}, nil)
	s.Equal(http.StatusForbidden, resp.StatusCode)

	var updated dto.PostResponse
	resp = s.doJSON(http.MethodPatch, "/api/v1/posts/"+post.ID, hostToken, map[string]any{
		"title": "Renamed night",
	}, &updated)
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Equal("Renamed night", updated.Title)
}

func (s *Suite) TestCancelPost_TerminalStateRejected() {
	_, token := s.registerUser("host7")
	post := s.createPost(token, 4)

	resp := s.doJSON(http.MethodDelete, "/api/v1/posts/"+post.ID, token, nil, nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	resp = s.doJSON(http.MethodDelete, "/api/v1/posts/"+post.ID, token, nil, nil)
	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *Suite) TestSendRequest_OwnPostRejected() {
	_, token := s.registerUser("host8")
	post := s.createPost(token, 4)

	resp := s.doJSON(http.MethodPost, "/api/v1/posts/"+post.ID+"/requests", token, dto.SendRequestRequest{}, nil)
	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *Suite) TestSendRequest_DuplicateRejected() {
	_, hostToken := s.registerUser("host9")
	_, guestToken := s.registerUser("guest9")
	post := s.createPost(hostToken, 4)

	s.sendRequest(guestToken, post.ID)

	resp := s.doJSON(http.MethodPost, "/api/v1/posts/"+post.ID+"/requests", guestToken, dto.SendRequestRequest{}, nil)
	s.Equal(http.StatusConflict, resp.StatusCode)
}

func (s *Suite) TestSendRequest_AllowedAgainAfterCancel() {
	_, hostToken := s.registerUser("host10")
	_, guestToken := s.registerUser("guest10")
	post := s.createPost(hostToken, 4)

	req := s.sendRequest(guestToken, post.ID)

	resp := s.doJSON(http.MethodDelete, "/api/v1/requests/"+req.ID, guestToken, nil, nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	again := s.sendRequest(guestToken, post.ID)
	s.Equal("pending", again.Status)
}

func (s *Suite) TestAcceptRequest_FullLifecycleClosesPost() {
	_, hostToken := s.registerUser("host11")
	_, guestToken := s.registerUser("guest11")
	post := s.createPost(hostToken, 2)

	req := s.sendRequest(guestToken, post.ID)

	status, accepted := s.respond(hostToken, req.ID, "accept")
	s.Require().Equal(http.StatusOK, status)
	s.Equal("accepted", accepted.Status)
	s.NotNil(accepted.RespondedAt)

	// Host plus one guest fills a two-person post.
	full := s.getPost(hostToken, post.ID)
	s.Equal("closed", full.Status)
	s.Len(full.Participants, 2)

	// A closed post takes no further requests.
	_, lateToken := s.registerUser("late11")
	resp := s.doJSON(http.MethodPost, "/api/v1/posts/"+post.ID+"/requests", lateToken, dto.SendRequestRequest{}, nil)
	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *Suite) TestDeclineRequest() {
	_, hostToken := s.registerUser("host12")
	_, guestToken := s.registerUser("guest12")
	post := s.createPost(hostToken, 4)

	req := s.sendRequest(guestToken, post.ID)

	status, declined := s.respond(hostToken, req.ID, "decline")
	s.Require().Equal(http.StatusOK, status)
	s.Equal("declined", declined.Status)

	full := s.getPost(hostToken, post.ID)
	s.Len(full.Participants, 1)
}

func (s *Suite) TestRespond_AlreadyProcessedRejected() {
	_, hostToken := s.registerUser("host13")
	_, guestToken := s.registerUser("guest13")
	post := s.createPost(hostToken, 4)

	req := s.sendRequest(guestToken, post.ID)

	status, _ := s.respond(hostToken, req.ID, "decline")
	s.Require().Equal(http.StatusOK, status)

	status, _ = s.respond(hostToken, req.ID, "accept")
	s.Equal(http.StatusBadRequest, status)
}

func (s *Suite) TestRespond_OnlyCreator() {
	_, hostToken := s.registerUser("host14")
	_, guestToken := s.registerUser("guest14")
	_, strangerToken := s.registerUser("stranger14")
	post := s.createPost(hostToken, 4)

	req := s.sendRequest(guestToken, post.ID)

	status, _ := s.respond(strangerToken, req.ID, "accept")
	s.Equal(http.StatusForbidden, status)
}

func (s *Suite) TestCancelRequest_OnlyRequester() {
	_, hostToken := s.registerUser("host15")
	_, guestToken := s.registerUser("guest15")
	post := s.createPost(hostToken, 4)

	req := s.sendRequest(guestToken, post.ID)

	resp := s.doJSON(http.MethodDelete, "/api/v1/requests/"+req.ID, hostToken, nil, nil)
	s.Equal(http.StatusForbidden, resp.StatusCode)
}

func (s *Suite) TestListPostRequests_CreatorOnly() {
	_, hostToken := s.registerUser("host16")
	_, guestToken := s.registerUser("guest16")
	post := s.createPost(hostToken, 4)

	s.sendRequest(guestToken, post.ID)

	var reqs []dto.RequestResponse
	resp := s.doJSON(http.MethodGet, "/api/v1/posts/"+post.ID+"/requests", hostToken, nil, &reqs)
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Len(reqs, 1)

	resp = s.doJSON(http.MethodGet, "/api/v1/posts/"+post.ID+"/requests", guestToken, nil, nil)
	s.Equal(http.StatusForbidden, resp.StatusCode)
}

func (s *Suite) TestConcurrentAccept_NeverExceedsCapacity() {
	_, hostToken := s.registerUser("host17")
	_, guest1Token := s.registerUser("guest17a")
	_, guest2Token := s.registerUser("guest17b")
	post := s.createPost(hostToken, 2)

	req1 := s.sendRequest(guest1Token, post.ID)
	req2 := s.sendRequest(guest2Token, post.ID)

	// Both accepts race for the single free slot.
	statuses := make(chan int, 2)
	var wg sync.WaitGroup
	for _, id := range []string{req1.ID, req2.ID} {
		wg.Add(1)
		go func(requestID string) {
			defer wg.Done()

			body, _ := json.Marshal(dto.RespondRequestRequest{Action: "accept"})
			httpReq, err := http.NewRequest(http.MethodPost, s.BaseURL+"/api/v1/requests/"+requestID+"/respond", bytes.NewReader(body))
			if err != nil {
				statuses <- 0
				return
			}
			httpReq.Header.Set("Content-Type", "application/json")
			httpReq.Header.Set("Authorization", "Bearer "+hostToken)

			resp, err := http.DefaultClient.Do(httpReq)
			if err != nil {
				statuses <- 0
				return
			}
			resp.Body.Close()
			statuses <- resp.StatusCode
		}(id)
	}
	wg.Wait()
	close(statuses)

	var accepted, rejected int
	for code := range statuses {
		switch code {
		case http.StatusOK:
			accepted++
		case http.StatusBadRequest:
			rejected++
		}
	}

	s.Equal(1, accepted, "exactly one accept should win the last slot")
	s.Equal(1, rejected, "the loser should see the post as full")

	full := s.getPost(hostToken, post.ID)
	s.Len(full.Participants, 2)
	s.Equal("closed", full.Status)
}

func (s *Suite) TestUpdatePost_MaxBelowParticipantsRejected() {
	_, hostToken := s.registerUser("host18")
	_, guestToken := s.registerUser("guest18")
	post := s.createPost(hostToken, 4)

	req := s.sendRequest(guestToken, post.ID)
	status, _ := s.respond(hostToken, req.ID, "accept")
	s.Require().Equal(http.StatusOK, status)

	// Two participants are in; max cannot drop to one.
	resp := s.doJSON(http.MethodPatch, "/api/v1/posts/"+post.ID, hostToken, map[string]any{
		"max_participants": 1,
	}, nil)
	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *Suite) TestReviews_AfterCompletedHangout() {
	host, hostToken := s.registerUser("host19")
	guest, guestToken := s.registerUser("guest19")
	post := s.createPost(hostToken, 4)

	req := s.sendRequest(guestToken, post.ID)
	status, _ := s.respond(hostToken, req.ID, "accept")
	s.Require().Equal(http.StatusOK, status)

	// Reviews open only once the hangout has happened.
	resp := s.doJSON(http.MethodPost, "/api/v1/posts/"+post.ID+"/reviews", guestToken, dto.CreateReviewRequest{
		RevieweeID: host.ID,
		Rating:     5,
	}, nil)
	s.Equal(http.StatusBadRequest, resp.StatusCode)

	_, err := s.Postgres.DB.Exec("UPDATE hangout_posts SET status = 'completed' WHERE id = $1", post.ID)
	s.Require().NoError(err)

	var review dto.ReviewResponse
	resp = s.doJSON(http.MethodPost, "/api/v1/posts/"+post.ID+"/reviews", guestToken, dto.CreateReviewRequest{
		RevieweeID: host.ID,
		Rating:     5,
	}, &review)
	s.Equal(http.StatusCreated, resp.StatusCode)
	s.Equal(5, review.Rating)

	// One review per reviewer and reviewee pair.
	resp = s.doJSON(http.MethodPost, "/api/v1/posts/"+post.ID+"/reviews", guestToken, dto.CreateReviewRequest{
		RevieweeID: host.ID,
		Rating:     4,
	}, nil)
	s.Equal(http.StatusConflict, resp.StatusCode)

	// Outsiders cannot review.
	_, strangerToken := s.registerUser("stranger19")
	resp = s.doJSON(http.MethodPost, "/api/v1/posts/"+post.ID+"/reviews", strangerToken, dto.CreateReviewRequest{
		RevieweeID: host.ID,
		Rating:     1,
	}, nil)
	s.Equal(http.StatusForbidden, resp.StatusCode)

	var reviews []dto.ReviewResponse
	resp = s.doJSON(http.MethodGet, "/api/v1/users/"+host.ID+"/reviews", guestToken, nil, &reviews)
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Require().Len(reviews, 1)
	s.Equal(guest.ID, reviews[0].ReviewerID)
}

func (s *Suite) TestListMyPostsAndRequests() {
	_, hostToken := s.registerUser("host20")
	_, guestToken := s.registerUser("guest20")
	post := s.createPost(hostToken, 4)

	s.sendRequest(guestToken, post.ID)

	var posts []dto.PostResponse
	resp := s.doJSON(http.MethodGet, "/api/v1/users/me/posts", hostToken, nil, &posts)
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Len(posts, 1)

	var reqs []dto.RequestResponse
	resp = s.doJSON(http.MethodGet, "/api/v1/users/me/requests", guestToken, nil, &reqs)
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Len(reqs, 1)
}
