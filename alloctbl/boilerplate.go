package alloctbl

type req_AllocTbl_Alloc struct {
}
type res_AllocTbl_Alloc struct {
	Arg0 int
	Arg1 error
}
type req_AllocTbl_Free struct {
	bit int
}
type res_AllocTbl_Free struct {
}
type req_AllocTbl_InUse struct {
}
type res_AllocTbl_InUse struct {
	Arg0 int
}
type req_AllocTbl_Shutdown struct{}
type res_AllocTbl_Shutdown struct {
	Arg0 error
}

// Interface types and implementations
type reqAllocTbl interface {
	is_reqAllocTbl()
}
type resAllocTbl interface {
	is_resAllocTbl()
}

func (r req_AllocTbl_Alloc) is_reqAllocTbl()    {}
func (r res_AllocTbl_Alloc) is_resAllocTbl()    {}
func (r req_AllocTbl_Free) is_reqAllocTbl()     {}
func (r res_AllocTbl_Free) is_resAllocTbl()     {}
func (r req_AllocTbl_InUse) is_reqAllocTbl()    {}
func (r res_AllocTbl_InUse) is_resAllocTbl()    {}
func (r req_AllocTbl_Shutdown) is_reqAllocTbl() {}
func (r res_AllocTbl_Shutdown) is_resAllocTbl() {}

// Type check request/response types
var _ reqAllocTbl = req_AllocTbl_Alloc{}
var _ resAllocTbl = res_AllocTbl_Alloc{}
var _ reqAllocTbl = req_AllocTbl_Free{}
var _ resAllocTbl = res_AllocTbl_Free{}
var _ reqAllocTbl = req_AllocTbl_InUse{}
var _ resAllocTbl = res_AllocTbl_InUse{}
var _ reqAllocTbl = req_AllocTbl_Shutdown{}
var _ resAllocTbl = res_AllocTbl_Shutdown{}

func (s *server_AllocTbl) Alloc() (int, error) {
	s.in <- req_AllocTbl_Alloc{}
	result := (<-s.out).(res_AllocTbl_Alloc)
	return result.Arg0, result.Arg1
}
func (s *server_AllocTbl) Free(bit int) {
	s.in <- req_AllocTbl_Free{bit}
	<-s.out
}
func (s *server_AllocTbl) InUse() int {
	s.in <- req_AllocTbl_InUse{}
	result := (<-s.out).(res_AllocTbl_InUse)
	return result.Arg0
}
func (s *server_AllocTbl) Shutdown() error {
	s.in <- req_AllocTbl_Shutdown{}
	result := (<-s.out).(res_AllocTbl_Shutdown)
	return result.Arg0
}
