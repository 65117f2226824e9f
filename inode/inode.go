package inode

import (
	"sort"

	"github.com/google/uuid"
	"github.com/jnwhiteh/userkernel/alloctbl"
	"github.com/jnwhiteh/userkernel/common"
	"github.com/jnwhiteh/userkernel/metrics"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type server_InodeTbl struct {
	dev    common.Device
	alloc  common.AllocTbl       // inode numbers
	inodes map[int]*common.Inode // every inode which has not been destroyed

	in  chan reqInodeTbl
	out chan resInodeTbl
}

// NewTable starts an inode table holding at most |size| inodes, whose
// content is stored on |dev|.
func NewTable(dev common.Device, size int) common.InodeTbl {
	itable := &server_InodeTbl{
		dev,
		alloctbl.NewAllocTbl("inodes", size, common.ENFILE, false),
		make(map[int]*common.Inode),
		make(chan reqInodeTbl),
		make(chan resInodeTbl),
	}

	go itable.loop()

	return itable
}

func (itable *server_InodeTbl) loop() {
	alive := true
	for alive {
		req := <-itable.in
		switch req := req.(type) {
		case req_InodeTbl_NewInode:
			rip, err := itable.newInode()
			itable.out <- res_InodeTbl_NewInode{rip, err}
		case req_InodeTbl_DupInode:
			// Given an inode, duplicate it by incrementing its count
			rip := req.inode
			if rip.Count == 0 {
				metrics.FilesOpen.Inc()
			}
			rip.Count++
			itable.out <- res_InodeTbl_DupInode{rip}
		case req_InodeTbl_PutInode:
			rip := req.inode

			rip.Count--
			if rip.Count < 0 {
				log.WithFields(log.Fields{"inum": rip.Inum, "key": rip.Key}).
					Panic("inode reference count went negative")
			}
			if rip.Count == 0 { // means no one is using it now
				metrics.FilesOpen.Dec()
				if rip.Unlinked { // free the inode
					itable.destroy(rip)
				}
			}
			itable.out <- res_InodeTbl_PutInode{rip.Count}
		case req_InodeTbl_UnlinkInode:
			rip := req.inode

			if rip.Unlinked {
				log.WithField("inum", rip.Inum).Panic("inode unlinked twice")
			}
			rip.Unlinked = true
			if rip.Count == 0 {
				itable.destroy(rip)
			} else {
				metrics.DeferredDeletesTotal.Inc()
				log.WithFields(log.Fields{"inum": rip.Inum, "count": rip.Count}).
					Debug("deferring destruction of open inode")
			}
			itable.out <- res_InodeTbl_UnlinkInode{}
		case req_InodeTbl_Inodes:
			infos := make([]common.InodeInfo, 0, len(itable.inodes))
			for _, rip := range itable.inodes {
				infos = append(infos, common.InodeInfo{
					Inum:     rip.Inum,
					Key:      rip.Key,
					Count:    rip.Count,
					Unlinked: rip.Unlinked,
					Size:     rip.Size(),
					Version:  rip.Version(),
				})
			}
			sort.Slice(infos, func(i, j int) bool { return infos[i].Inum < infos[j].Inum })
			itable.out <- res_InodeTbl_Inodes{infos}
		case req_InodeTbl_Shutdown:
			if err := itable.shutdown(); err != nil {
				itable.out <- res_InodeTbl_Shutdown{err}
				continue
			}
			itable.out <- res_InodeTbl_Shutdown{nil}
			alive = false
		}
	}
}

func (itable *server_InodeTbl) newInode() (*common.Inode, error) {
	inum, err := itable.alloc.Alloc()
	if err != nil {
		return nil, err
	}

	key := uuid.New().String()
	obj, err := itable.dev.Create(key)
	if err != nil {
		itable.alloc.Free(inum)
		return nil, errors.WithMessage(err, "allocating inode")
	}

	rip := &common.Inode{
		Inum:   inum,
		Key:    key,
		Obj:    obj,
		Dev:    itable.dev,
		Itable: itable,
	}
	itable.inodes[inum] = rip
	metrics.FilesLive.Inc()

	return rip, nil
}

// Release the storage of an inode which is neither named nor open
func (itable *server_InodeTbl) destroy(rip *common.Inode) {
	if err := rip.Obj.Close(); err != nil {
		log.WithFields(log.Fields{"inum": rip.Inum, "err": err}).Warn("failed to close object")
	}
	if err := itable.dev.Remove(rip.Key); err != nil {
		log.WithFields(log.Fields{"inum": rip.Inum, "err": err}).Warn("failed to remove object")
	}
	itable.dev.Release(int64(rip.Size()))
	itable.alloc.Free(rip.Inum)
	delete(itable.inodes, rip.Inum)

	metrics.FilesLive.Dec()
	metrics.FilesDestroyedTotal.Inc()
	log.WithFields(log.Fields{"inum": rip.Inum, "key": rip.Key}).Debug("destroyed inode")
}

// Destroy every remaining inode. Names do not outlive the table, so content
// left on the device would be unreachable by the next boot.
func (itable *server_InodeTbl) shutdown() error {
	for _, rip := range itable.inodes {
		if rip.Count > 0 {
			return common.EBUSY
		}
	}
	for _, rip := range itable.inodes {
		itable.destroy(rip)
	}
	itable.inodes = nil
	return itable.alloc.Shutdown()
}
