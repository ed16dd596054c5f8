package test

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/2beens/dadhichi/internal/community"
)

func (s *IntegrationTestSuite) TestCommunityLeaderboard() {
	ctx := context.Background()
	token := doLogin(ctx, s.T())
	defer doLogout(ctx, s.T(), token)

	// the first read seeds the demo participants
	status, body := doRequest(ctx, s.T(), "GET", "/community/leaderboard", token, nil)
	s.Require().Equal(http.StatusOK, status, string(body))

	status, body = doRequest(ctx, s.T(), "POST", "/community/steps", token, community.StepsRequest{
		Name:  "Arjun",
		Steps: 99999,
	})
	s.Require().Equal(http.StatusCreated, status, string(body))

	status, body = doRequest(ctx, s.T(), "GET", "/community/leaderboard?limit=3", token, nil)
	s.Require().Equal(http.StatusOK, status, string(body))
	var board []community.Entry
	s.Require().NoError(json.Unmarshal(body, &board))
	s.Require().Len(board, 3)
	s.Equal(community.Entry{Rank: 1, Name: "Arjun", Steps: 99999}, board[0])

	status, body = doRequest(ctx, s.T(), "GET", "/community/leaderboard/Arjun", token, nil)
	s.Require().Equal(http.StatusOK, status, string(body))

	status, _ = doRequest(ctx, s.T(), "GET", "/community/leaderboard/nobody", token, nil)
	s.Equal(http.StatusNotFound, status)

	key := community.WeekKey(time.Now())
	members, err := s.redisClient.ZCard(ctx, key).Result()
	s.Require().NoError(err)
	s.Equal(int64(len(community.DemoParticipants)+1), members)

	ttl, err := s.redisClient.TTL(ctx, key).Result()
	s.Require().NoError(err)
	s.Greater(ttl, 13*24*time.Hour)
}
