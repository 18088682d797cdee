package client

const postFields = `
	__typename
	id
	title
	textSnippet
	points
	voteStatus
	creatorId
	createdAt
	updatedAt
	creator { __typename id username }
`

const userFields = `__typename id username email`

var (
	postsQuery = `query Posts($limit: Int!, $cursor: String) {
	posts(limit: $limit, cursor: $cursor) {
		__typename
		hasMore
		endCursor
		posts {` + postFields + `}
	}
}`

	postQuery = `query Post($id: Int!) {
	post(id: $id) {` + postFields + `text }
}`

	meQuery = `query Me { me { ` + userFields + ` } }`

	createPostMutation = `mutation CreatePost($input: PostInput!) {
	createPost(input: $input) {` + postFields + `text }
}`

	updatePostMutation = `mutation UpdatePost($id: Int!, $title: String) {
	updatePost(id: $id, title: $title) { __typename id title updatedAt }
}`

	deletePostMutation = `mutation DeletePost($id: Int!) { deletePost(id: $id) }`

	voteMutation = `mutation Vote($postId: Int!, $value: Int!) { vote(postId: $postId, value: $value) }`

	userResponseFields = `{
		__typename
		errors { field message }
		user { ` + userFields + ` }
	}`

	loginMutation = `mutation Login($usernameOrEmail: String!, $password: String!) {
	login(usernameOrEmail: $usernameOrEmail, password: $password) ` + userResponseFields + `
}`

	registerMutation = `mutation Register($options: UsernamePasswordInput!) {
	register(options: $options) ` + userResponseFields + `
}`

	logoutMutation = `mutation Logout { logout }`
)
