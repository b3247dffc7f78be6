package metrics

// IncrementPostCreated increments the post creation counter
func (m *Metrics) IncrementPostCreated() {
	m.safeExecute("IncrementPostCreated", func() {
		m.PostCreatedTotal.Inc()
	})
}

// IncrementCommentCreated increments the comment creation counter
func (m *Metrics) IncrementCommentCreated() {
	m.safeExecute("IncrementCommentCreated", func() {
		m.CommentCreatedTotal.Inc()
	})
}

// IncrementVoteCast records a settled vote mutation.
// target is "post" or "comment"; result is the caller's resulting state.
func (m *Metrics) IncrementVoteCast(target, result string) {
	m.safeExecute("IncrementVoteCast", func() {
		m.VotesCastTotal.WithLabelValues(target, result).Inc()
	})
}

// IncrementVoteConflict records a vote mutation that exhausted its retries
func (m *Metrics) IncrementVoteConflict() {
	m.safeExecute("IncrementVoteConflict", func() {
		m.VoteConflictsTotal.Inc()
	})
}

// IncrementCascadeDelete records a completed cascade deletion
func (m *Metrics) IncrementCascadeDelete(entity string) {
	m.safeExecute("IncrementCascadeDelete", func() {
		m.CascadeDeletesTotal.WithLabelValues(entity).Inc()
	})
}

// AddScoreRepairs records scores fixed by the audit job
func (m *Metrics) AddScoreRepairs(count int64) {
	m.safeExecute("AddScoreRepairs", func() {
		m.ScoreRepairsTotal.Add(float64(count))
	})
}

// SetPostsTotal sets the total posts gauge
func (m *Metrics) SetPostsTotal(count int64) {
	m.safeExecute("SetPostsTotal", func() {
		m.PostsTotal.Set(float64(count))
	})
}

// SetCommentsTotal sets the total comments gauge
func (m *Metrics) SetCommentsTotal(count int64) {
	m.safeExecute("SetCommentsTotal", func() {
		m.CommentsTotal.Set(float64(count))
	})
}
